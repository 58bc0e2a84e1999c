package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/rhi/engine/core"
)

// Job is one unit of work run by the job system.
type Job struct {
	Name string
	// Run is required.
	Run func() error
	// OnComplete is called after Run succeeded. Optional.
	OnComplete func()
	// OnFailure is called with the error Run returned. Optional.
	OnFailure func(error)
}

// JobSystem runs jobs on a fixed set of worker goroutines.
type JobSystem struct {
	numWorkers int
	jobQueue   chan Job
	wg         sync.WaitGroup
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job, channelSize),
	}
	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				js.run(job)
			}
		}()
	}
}

func (js *JobSystem) run(job Job) {
	if err := job.Run(); err != nil {
		core.LogError("job '%s' failed: %s", job.Name, err)
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
		return
	}
	if job.OnComplete != nil {
		job.OnComplete()
	}
}

/**
 * @brief Shuts the job system down. Jobs already submitted still run.
 */
func (js *JobSystem) Shutdown() error {
	close(js.jobQueue)
	js.wg.Wait()
	return nil
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks
 * while the queue is full.
 */
func (js *JobSystem) Submit(job Job) {
	js.jobQueue <- job
}

// RunAll runs fns on the job system and waits for all of them. The
// returned slice holds the error of each function, in order.
func (js *JobSystem) RunAll(name string, fns ...func() error) []error {
	errs := make([]error, len(fns))
	var wg sync.WaitGroup
	wg.Add(len(fns))
	for i, fn := range fns {
		js.Submit(Job{
			Name:       fmt.Sprintf("%s[%d]", name, i),
			Run:        fn,
			OnComplete: wg.Done,
			OnFailure: func(err error) {
				errs[i] = err
				wg.Done()
			},
		})
	}
	wg.Wait()
	return errs
}
