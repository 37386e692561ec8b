package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"autoposter/internal/domain"
)

var ErrInvalidJob = errors.New("invalid job")

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// NextRun returns when job should fire next, relative to now. ok is false
// when the job will never fire again (an executed once job).
//
// Daily and weekly jobs only consider the current day's slot: a slot missed
// while the scheduler was down is caught up later the same day, never on a
// following day.
func NextRun(job domain.Job, now time.Time) (next time.Time, ok bool, err error) {
	loc := now.Location()

	lastRun, err := parseLastRun(job, loc)
	if err != nil {
		return time.Time{}, false, err
	}

	switch job.Type {
	case domain.JobDaily:
		hour, minute, err := parseClock(job.Time)
		if err != nil {
			return time.Time{}, false, err
		}
		slot := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
		if lastRun != nil && !lastRun.Before(slot) {
			slot = slot.AddDate(0, 0, 1)
		}
		return slot, true, nil

	case domain.JobWeekly:
		hour, minute, err := parseClock(job.Time)
		if err != nil {
			return time.Time{}, false, err
		}
		day, err := parseWeekday(job.Day)
		if err != nil {
			return time.Time{}, false, err
		}
		ahead := (int(day) - int(now.Weekday()) + 7) % 7
		slot := time.Date(now.Year(), now.Month(), now.Day()+ahead, hour, minute, 0, 0, loc)
		if lastRun != nil && !lastRun.Before(slot) {
			slot = slot.AddDate(0, 0, 7)
		}
		return slot, true, nil

	case domain.JobInterval:
		if job.EveryMinutes <= 0 {
			return time.Time{}, false, fmt.Errorf("%w: every_minutes must be positive, got %d", ErrInvalidJob, job.EveryMinutes)
		}
		if lastRun == nil {
			return now, true, nil
		}
		return lastRun.Add(time.Duration(job.EveryMinutes) * time.Minute), true, nil

	case domain.JobOnce:
		runAt, err := domain.ParseTimestamp(job.RunAt, loc)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("%w: run_at_datetime: %v", ErrInvalidJob, err)
		}
		if job.Executed != nil && *job.Executed {
			return time.Time{}, false, nil
		}
		return runAt, true, nil

	default:
		return time.Time{}, false, fmt.Errorf("%w: unknown type %q", ErrInvalidJob, job.Type)
	}
}

// IsDue reports whether job should run at now.
func IsDue(job domain.Job, now time.Time) (bool, error) {
	if !job.Enabled {
		return false, nil
	}
	next, ok, err := NextRun(job, now)
	if err != nil || !ok {
		return false, err
	}
	return !next.After(now), nil
}

func parseLastRun(job domain.Job, loc *time.Location) (*time.Time, error) {
	if job.LastRun == nil || *job.LastRun == "" {
		return nil, nil
	}
	t, err := domain.ParseTimestamp(*job.LastRun, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: last_run: %v", ErrInvalidJob, err)
	}
	return &t, nil
}

func parseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidJob, s)
	}
	return t.Hour(), t.Minute(), nil
}

func parseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if d, ok := weekdays[name]; ok {
		return d, nil
	}
	if len(name) >= 3 {
		for full, d := range weekdays {
			if strings.HasPrefix(full, name) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: day %q is not a weekday", ErrInvalidJob, s)
}
