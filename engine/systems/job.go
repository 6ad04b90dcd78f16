package systems

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spaghettifunk/marionette/engine/core"
)

/** @brief Entry point of a job. A result, if any, is sent on out. */
type JobStart func(params interface{}, out chan<- interface{}) error

/**
 * @brief Describes a job to be run by the JobSystem.
 */
type JobTask struct {
	/** @brief Used in log lines only. */
	Name string
	/** @brief Invoked on a worker goroutine. Required. */
	OnStart JobStart
	/** @brief Passed to OnStart as is. */
	InputParams interface{}
	/** @brief Invoked with the value OnStart sent, or nil, when OnStart succeeds. Optional. */
	OnComplete func(result interface{})
	/** @brief Invoked with the error OnStart returned. Optional. */
	OnFailure func(err error)
	/** @brief Invoked after either of the above. Optional. */
	OnCompletionCallback func()
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan JobTask
	wg         sync.WaitGroup

	mutex    sync.RWMutex
	isClosed bool
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")
var ErrJobSystemClosed = errors.New("job system already shut down")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan JobTask, channelSize),
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

func (js *JobSystem) run(job JobTask) {
	out := make(chan interface{}, 1)
	if err := job.OnStart(job.InputParams, out); err != nil {
		core.LogError("job %s failed: %s", job.Name, err.Error())
		if job.OnFailure != nil {
			job.OnFailure(err)
		}
	} else if job.OnComplete != nil {
		var result interface{}
		select {
		case result = <-out:
		default:
		}
		job.OnComplete(result)
	}

	if job.OnCompletionCallback != nil {
		job.OnCompletionCallback()
	}
}

/**
 * @brief Shuts the job system down, waiting for queued jobs to finish.
 */
func (js *JobSystem) Shutdown() error {
	js.mutex.Lock()
	if js.isClosed {
		js.mutex.Unlock()
		return ErrJobSystemClosed
	}
	js.isClosed = true
	close(js.jobQueue)
	js.mutex.Unlock()

	js.wg.Wait()
	return nil
}

// AddWorkNonBlocking queues the job from a separate goroutine and returns immediately.
func (js *JobSystem) AddWorkNonBlocking(jt JobTask) {
	go func() {
		if err := js.Submit(jt); err != nil {
			core.LogWarn("job %s dropped: %s", jt.Name, err.Error())
		}
	}()
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks while the queue is full.
 * @param jt The description of the job to be executed.
 */
func (js *JobSystem) Submit(jt JobTask) error {
	if jt.OnStart == nil {
		return fmt.Errorf("job %s has no entry point", jt.Name)
	}
	js.mutex.RLock()
	defer js.mutex.RUnlock()
	if js.isClosed {
		return ErrJobSystemClosed
	}
	js.jobQueue <- jt
	return nil
}
