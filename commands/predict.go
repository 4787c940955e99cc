package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	forecaster "github.com/aouyang1/ozone-forecaster"
	"github.com/aouyang1/ozone-forecaster/dashboard"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

type predictOptions struct {
	days    int
	csvPath string
	plot    string
	verbose bool
}

func addPredict(topLevel *cobra.Command) {
	po := &predictOptions{}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict ozone levels for the next days and print them as a table.",
		Example: `
ozoneboard predict --days 7
ozoneboard predict --days 30 --csv previsao_ozonio.csv --plot previsao.html
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return predict(cmd.Context(), cfg, po, color.Output)
		},
	}

	cmd.Flags().IntVarP(&po.days, "days", "d", dashboard.DefaultDays, "Number of days to forecast.")
	cmd.Flags().StringVar(&po.csvPath, "csv", "", "Also write the table as csv to this file.")
	cmd.Flags().StringVar(&po.plot, "plot", "", "Also write the forecast chart as html to this file.")
	cmd.Flags().BoolVarP(&po.verbose, "verbose", "v", false, "Print the model summary before the table.")

	topLevel.AddCommand(cmd)
}

func predict(ctx context.Context, cfg Config, po *predictOptions, w io.Writer) error {
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}

	f, err := forecaster.Load(cfg.Model)
	if err != nil {
		return fmt.Errorf("unable to load model %s, %w", cfg.Model, err)
	}
	logger.Debug("model loaded", "path", cfg.Model, "history", f.History().Len())

	if po.verbose {
		m, err := f.Model()
		if err != nil {
			return err
		}
		if err := m.TablePrint(w, "", "  "); err != nil {
			return err
		}
		if err := printModelFit(w, f); err != nil {
			return err
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	fc, err := dashboard.NewInvoker(f).Forecast(ctx, po.days)
	if err != nil {
		return err
	}
	table := fc.Table()
	printTable(w, table, po.days)

	if po.csvPath != "" {
		if err := writeFile(po.csvPath, table.WriteCSV); err != nil {
			return err
		}
		logger.Info("wrote csv", "path", po.csvPath, "rows", table.Len())
	}
	if po.plot != "" {
		write := func(out io.Writer) error {
			return forecaster.PlotForecast(out, fc.History, fc.Results, &forecaster.PlotOpts{
				Title:     "Previsão de Ozônio",
				XAxisName: "Data",
				YAxisName: "Nível de Ozônio (O3 μg/m3)",
			})
		}
		if err := writeFile(po.plot, write); err != nil {
			return err
		}
		logger.Info("wrote chart", "path", po.plot)
	}
	return nil
}

func printModelFit(w io.Writer, f *forecaster.Forecaster) error {
	fit, err := f.FitScores()
	if err != nil {
		return err
	}
	seriesEq, err := f.SeriesModelEq()
	if err != nil {
		return err
	}
	uncertaintyEq, err := f.UncertaintyModelEq()
	if err != nil {
		return err
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Fit RMSE:", fmt.Sprintf("%.2f %s", fit.RMSE(), f.Unit()))
	tbl.AddRow("Series:", seriesEq)
	tbl.AddRow("Uncertainty:", uncertaintyEq)

	_, err = fmt.Fprintf(w, "%s\n\n", tbl)
	return err
}

func printTable(w io.Writer, table dashboard.Table, days int) {
	bold := color.New(color.Bold).SprintFunc()

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold(dashboard.DateHeader), bold(dashboard.ValueHeader))
	for _, row := range table.Rows {
		tbl.AddRow(row.DateString(), row.ValueString())
	}

	_, _ = fmt.Fprintln(w, bold(fmt.Sprintf("Previsão de ozônio para os próximos %d dias", days)))
	_, _ = fmt.Fprintln(w, tbl)
}

func writeFile(path string, write func(io.Writer) error) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s, %w", path, err)
	}
	if err := write(out); err != nil {
		out.Close()
		return fmt.Errorf("unable to write %s, %w", path, err)
	}
	return out.Close()
}
