// Copyright (c) 2026 Odoogate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// spinnerFrames are braille frames similar to the docker CLI.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startSpinner shows an inline spinner with text on stderr while a slow call runs.
// The returned function stops it and prints a success or failure line. Without a
// terminal no animation is drawn.
func startSpinner(text string) func(ok bool, msg string) {
	stop := startInlineSpinner(os.Stderr, text, spinnerFrames, 100*time.Millisecond, term.IsTerminal(int(os.Stderr.Fd())))
	return func(ok bool, msg string) {
		stop()
		if ok {
			pterm.Success.Println(msg)
			return
		}
		fmt.Fprintln(os.Stderr, pterm.Error.Sprint(msg))
	}
}

// startInlineSpinner animates frames followed by text on one line of w until the
// returned function is called, which clears the line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration, animate bool) func() {
	if !animate {
		return func() {}
	}
	cursor.Hide()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", len(text)+4))
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			cursor.Show()
		})
	}
}
