package timedataset

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrCannotInferFreq = errors.New("cannot infer frequency from time data")
	ErrInvalidPeriods  = errors.New("number of periods must be non-negative")
	ErrInvalidFreq     = errors.New("frequency must be positive")
)

type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}

	lastTime = t[len(t)-1]
	return lastTime
}

// EstimateFreq returns the most common interval between consecutive points. Ties go to the
// smallest interval.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	frequencies := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		delta := t[i].Sub(t[i-1])
		frequencies[delta] += 1
	}

	var maxCnt int
	var maxDelta time.Duration
	for delta, cnt := range frequencies {
		if cnt > maxCnt || (cnt == maxCnt && delta < maxDelta) {
			maxCnt = cnt
			maxDelta = delta
		}
	}
	return maxDelta, nil
}

// Horizon returns the periods time points following the end of the slice each spaced by freq
func (t TimeSlice) Horizon(periods int, freq time.Duration) ([]time.Time, error) {
	if periods < 0 {
		return nil, fmt.Errorf("periods: %d, %w", periods, ErrInvalidPeriods)
	}
	if freq <= 0 {
		return nil, fmt.Errorf("freq: %s, %w", freq, ErrInvalidFreq)
	}
	if len(t) == 0 {
		return nil, ErrNoTrainingData
	}

	lastTime := t.EndTime()
	horizon := make([]time.Time, 0, periods)
	for i := 1; i <= periods; i++ {
		horizon = append(horizon, lastTime.Add(time.Duration(i)*freq))
	}
	return horizon, nil
}

// Extend returns a copy of the slice followed by its horizon
func (t TimeSlice) Extend(periods int, freq time.Duration) ([]time.Time, error) {
	horizon, err := t.Horizon(periods, freq)
	if err != nil {
		return nil, err
	}
	res := make([]time.Time, 0, len(t)+len(horizon))
	res = append(res, t...)
	res = append(res, horizon...)
	return res, nil
}
