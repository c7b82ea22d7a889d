package packager

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/srcpack/internal/walker"
)

const channelBufferSize = 64

// workItem is a file handed from the producer to the worker pool.
type workItem struct {
	absolutePath string
	relativePath string
}

// runParallel splits the pipeline into a producing walk, a pool of reader
// and stripper workers, and a single consumer that owns the archive writer
// and the statistics. Traversal and rule resolution stay single-threaded;
// only file reading and stripping fan out.
func (run *pipeline) runParallel() error {
	group, groupContext := errgroup.WithContext(context.Background())

	workChannel := make(chan workItem, channelBufferSize)
	payloadChannel := make(chan payload, channelBufferSize)

	// Producer: walks the tree, counts walk-side exclusions locally, and
	// feeds included files to the workers. Local counters avoid sharing
	// stats with the consumer while the group runs.
	var producedFiles, walkExcludedFiles int
	group.Go(func() error {
		defer close(workChannel)
		callbacks := walker.Callbacks{
			Visit: func(absolutePath string, relativePath string) error {
				producedFiles++
				select {
				case workChannel <- workItem{absolutePath: absolutePath, relativePath: relativePath}:
					return nil
				case <-groupContext.Done():
					return groupContext.Err()
				}
			},
			Excluded: func(relativePath string, isDir bool) {
				if !isDir {
					walkExcludedFiles++
				}
			},
		}
		return walker.Walk(run.options.SourceRoot, run.resolver, run.logger, callbacks)
	})

	// Workers: read and strip files, then hand payloads to the consumer.
	workerGroup, workerContext := errgroup.WithContext(groupContext)
	for workerIndex := 0; workerIndex < run.options.Jobs; workerIndex++ {
		workerGroup.Go(func() error {
			for item := range workChannel {
				prepared := run.preparePayload(item.absolutePath, item.relativePath)
				select {
				case payloadChannel <- prepared:
				case <-workerContext.Done():
					return workerContext.Err()
				}
			}
			return nil
		})
	}
	group.Go(func() error {
		defer close(payloadChannel)
		return workerGroup.Wait()
	})

	// Consumer: the only goroutine touching the archive writer and the
	// write-side statistics.
	group.Go(func() error {
		for prepared := range payloadChannel {
			if prepared.failed {
				run.stats.ExcludedFiles++
				continue
			}
			if writeError := run.writePayload(prepared); writeError != nil {
				return writeError
			}
		}
		return nil
	})

	waitError := group.Wait()

	run.stats.TotalFiles += producedFiles + walkExcludedFiles
	run.stats.ExcludedFiles += walkExcludedFiles
	return waitError
}
