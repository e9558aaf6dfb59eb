// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package futex_testing runs helper processes for cross-process tests.
// A helper is the test binary itself, restarted with AppEnv set, so
// the test package's TestMain must dispatch on App before calling m.Run.
package futex_testing

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// AppEnv holds the name of the helper app to run.
const AppEnv = "GO_FUTEX_TEST_APP"

// TestAppResult is a result of a helper process launch.
type TestAppResult struct {
	Output string
	Err    error
}

// App returns the helper app name and its arguments,
// if the current process was started by RunTestApp or RunTestAppAsync.
func App() (string, []string, bool) {
	name := os.Getenv(AppEnv)
	if len(name) == 0 {
		return "", nil, false
	}
	return name, os.Args[1:], true
}

func startTestApp(app string, args []string, killChan <-chan bool) (*exec.Cmd, *bytes.Buffer, error) {
	cmd := exec.Command(os.Args[0], args...)
	cmd.Env = append(os.Environ(), AppEnv+"="+app)
	buff := bytes.NewBuffer(nil)
	cmd.Stderr = buff
	cmd.Stdout = buff
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	if killChan != nil {
		go func() {
			if kill, ok := <-killChan; kill && ok {
				cmd.Process.Kill()
			}
		}()
	}
	return cmd, buff, nil
}

func waitForCommand(cmd *exec.Cmd, buff *bytes.Buffer) (result TestAppResult) {
	if result.Err = cmd.Wait(); result.Err != nil {
		if exiterr, ok := result.Err.(*exec.ExitError); ok {
			if status, ok := exiterr.Sys().(syscall.WaitStatus); ok {
				result.Err = fmt.Errorf("%v, status code = %d", result.Err, status.ExitStatus())
			}
		}
	}
	result.Output = buff.String()
	return
}

// RunTestApp runs a helper app and waits for it to finish.
// To kill the process, send to killChan.
func RunTestApp(app string, args []string, killChan <-chan bool) (result TestAppResult) {
	if cmd, buff, err := startTestApp(app, args, killChan); err == nil {
		result = waitForCommand(cmd, buff)
	} else {
		result.Err = err
	}
	return
}

// RunTestAppAsync starts a helper app and returns immediately.
// To kill the process, send to killChan.
// To wait for the program to finish, receive on TestAppResult chan.
func RunTestAppAsync(app string, args []string, killChan <-chan bool) <-chan TestAppResult {
	ch := make(chan TestAppResult, 1)
	if cmd, buff, err := startTestApp(app, args, killChan); err != nil {
		ch <- TestAppResult{Err: err}
	} else {
		go func() {
			ch <- waitForCommand(cmd, buff)
		}()
	}
	return ch
}

// WaitForFunc calls f asynchronously leaving it some time to finish.
// It returns true, if f completed.
func WaitForFunc(f func(), d time.Duration) bool {
	ch := make(chan bool, 1)
	go func() {
		f()
		ch <- true
	}()
	select {
	case <-ch:
		return true
	case <-time.After(d):
		return false
	}
}

// WaitForAppResultChan waits for a value from ch with a timeout.
func WaitForAppResultChan(ch <-chan TestAppResult, d time.Duration) (TestAppResult, bool) {
	select {
	case value := <-ch:
		return value, true
	case <-time.After(d):
		return TestAppResult{}, false
	}
}
