// Lifeplay searches for Game-of-Life predecessors of target boards.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hailam/lifeplay/internal/board"
	"github.com/hailam/lifeplay/internal/engine"
	"github.com/hailam/lifeplay/internal/rindex"
	"github.com/hailam/lifeplay/internal/snapshot"
	"github.com/hailam/lifeplay/internal/storage"
	"github.com/hailam/lifeplay/internal/tile"
)

const snapshotScale = 16

// archiveObserver persists each new best-depth predecessor.
type archiveObserver struct {
	archive *storage.Archive
}

func (o *archiveObserver) ObserveBest(step int, b *board.Board) {
	if err := o.archive.RecordPredecessor(step, b); err != nil {
		log.Printf("archive: recording depth-%d predecessor: %v", step, err)
	}
}

// snapshotObserver writes a PNG of each new best-depth predecessor.
type snapshotObserver struct {
	dir string
}

func (o *snapshotObserver) ObserveBest(step int, b *board.Board) {
	path := filepath.Join(o.dir, fmt.Sprintf("depth-%02d.png", step))
	if err := snapshot.Write(b, path, snapshotScale); err != nil {
		log.Printf("snapshot: writing %s: %v", path, err)
	}
}

func main() {
	input := flag.String("input", "input.txt", "path to the target board file")
	steps := flag.Int("steps", 2, "target backward depth")
	parallel := flag.Bool("parallel", true, "run one worker per CPU instead of one")
	useArchive := flag.Bool("archive", false, "persist found predecessors to the local archive")
	snapshots := flag.String("snapshots", "", "directory for PNG snapshots of best-depth predecessors")
	flag.Parse()

	boards, err := board.Load(*input)
	if err != nil {
		log.Fatalf("loading boards: %v", err)
	}
	if len(boards) == 0 {
		log.Fatalf("loading boards: %s contains no boards", *input)
	}
	log.Printf("loaded %d target board(s) from %s", len(boards), *input)

	log.Printf("building reverse index (tile side %d)...", tile.Side)
	indexStart := time.Now()
	ix := rindex.Compute()
	log.Printf("reverse index ready in %s", time.Since(indexStart).Round(time.Millisecond))

	queue := engine.NewWorkQueue(ix, *steps)

	var archive *storage.Archive
	if *useArchive {
		archive, err = storage.Open()
		if err != nil {
			log.Fatalf("opening archive: %v", err)
		}
		defer archive.Close()
		queue.AddObserver(&archiveObserver{archive: archive})
	}
	if *snapshots != "" {
		if err := os.MkdirAll(*snapshots, 0755); err != nil {
			log.Fatalf("creating snapshot directory: %v", err)
		}
		queue.AddObserver(&snapshotObserver{dir: *snapshots})
	}

	searchStart := time.Now()
	queue.Start(boards, *parallel)
	queue.Wait()

	if archive != nil {
		stats := &storage.RunStats{
			Targets:    len(boards),
			TargetStep: *steps,
			BestStep:   queue.BestStep(),
			Processed:  queue.Processed(),
			Duration:   time.Since(searchStart),
			FinishedAt: time.Now(),
		}
		if err := archive.SaveRunStats(stats); err != nil {
			log.Printf("archive: saving run stats: %v", err)
		}
	}

	found := queue.Found(*steps)
	if len(found) > 0 {
		fmt.Printf("Found %d solution(s) at depth %d.\n", len(found), *steps)
	} else {
		fmt.Println("No solution found.")
	}
}
