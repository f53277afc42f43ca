package main

import (
	"errors"
	"os"

	"github.com/mikekucharski/COMP603-2015/pkg/driver"
)

var errNoInputFiles = errors.New("No input files.")

// job is one program to hand to a backend. target is set when the
// argument named a manifest target rather than a file.
type job struct {
	path   string
	target *driver.TargetSpec
}

func (a *app) jobs(args []string) ([]job, error) {
	if len(args) == 0 {
		if a.manifest == nil {
			return nil, errNoInputFiles
		}
		target, err := a.manifest.DefaultTarget()
		if err != nil {
			return nil, errNoInputFiles
		}
		a.log.Debug("using default target", "target", target.OriginalName)
		return []job{a.targetJob(target)}, nil
	}

	jobs := make([]job, 0, len(args))
	for _, arg := range args {
		if a.manifest != nil && !driver.IsSourceRef(arg) && !fileExists(arg) {
			if target, ok := a.manifest.FindTarget(arg); ok {
				jobs = append(jobs, a.targetJob(target))
				continue
			}
		}
		jobs = append(jobs, job{path: arg})
	}
	return jobs, nil
}

func (a *app) targetJob(target *driver.TargetSpec) job {
	return job{path: a.manifest.ResolvePath(target.Main), target: target}
}

func (j job) backend() driver.Backend {
	if j.target == nil {
		return driver.BackendRun
	}
	return j.target.Backend
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
