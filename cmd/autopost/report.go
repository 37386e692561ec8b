package main

import (
	"fmt"
	"io"

	"autoposter/internal/domain"
)

// report prints one line per result and returns an error when any of them
// failed, so the process exits non-zero.
func report(w io.Writer, results []domain.PublishResult) error {
	var failed int

	for _, r := range results {
		target := r.Path
		if target == "" {
			target = "-"
		}

		if r.Success {
			line := fmt.Sprintf("ok\t%s\t%s\tid=%s", r.Kind, target, r.RemoteID)
			if r.ProcessingStatus != "" {
				line += "\tstatus=" + string(r.ProcessingStatus)
			}
			if r.RetryCount > 0 {
				line += fmt.Sprintf("\tretries=%d", r.RetryCount)
			}
			fmt.Fprintln(w, line)
			continue
		}

		failed++
		fmt.Fprintf(w, "failed\t%s\t%s\t%s: %s\n", r.Kind, target, r.ErrorKind, r.Error())
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "nothing to publish")
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d publishes failed", failed, len(results))
	}
	return nil
}
