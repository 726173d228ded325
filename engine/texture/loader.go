package texture

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/schollz/progressbar/v3"
)

// ErrMissingRole is returned when a load request does not name all three images.
var ErrMissingRole = errors.New("texture: missing image")

type loader struct {
	workers  int
	progress io.Writer
	pool     worker.DynamicWorkerPool
}

// Loader decodes the earth images concurrently.
type Loader interface {
	// Load decodes every source on the worker pool and waits for all of them.
	// The result is all-or-nothing: if any image fails the Set is empty and the error
	// joins one wrapped error per failing image.
	//
	// Parameters:
	//   - sources: one source per Role
	//
	// Returns:
	//   - Set: the decoded images
	//   - error: ErrMissingRole or the joined decode errors
	Load(sources ...Source) (Set, error)
}

var _ Loader = &loader{}

// NewLoader creates a Loader with a pool of three workers, one per image.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		workers: len(Roles),
	}
	for _, opt := range options {
		opt(l)
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, len(Roles), 1*time.Second)
	return l
}

func (l *loader) Load(sources ...Source) (Set, error) {
	byRole := make(map[Role]Source, len(sources))
	for _, s := range sources {
		byRole[s.Role] = s
	}
	for _, r := range Roles {
		if _, ok := byRole[r]; !ok {
			return Set{}, fmt.Errorf("%w: %s", ErrMissingRole, r)
		}
	}

	var bar *progressbar.ProgressBar
	if l.progress != nil {
		bar = progressbar.NewOptions(len(Roles),
			progressbar.OptionSetWriter(l.progress),
			progressbar.OptionSetDescription("loading textures"),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Close()
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		set  Set
		errs = make(map[Role]error)
	)
	start := time.Now()
	for i, r := range Roles {
		src := byRole[r]
		wg.Add(1)
		l.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				d, err := load(src)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs[src.Role] = err
				} else {
					set.put(src.Role, d)
				}
				if bar != nil {
					_ = bar.Add(1)
				}
				return nil, err
			},
		})
	}
	wg.Wait()

	if len(errs) > 0 {
		joined := make([]error, 0, len(errs))
		for _, r := range Roles {
			if err, ok := errs[r]; ok {
				joined = append(joined, err)
			}
		}
		return Set{}, errors.Join(joined...)
	}

	log.Printf("Loaded %d textures in %s", len(Roles), time.Since(start).Round(time.Millisecond))
	return set, nil
}
