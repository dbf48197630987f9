// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package aclpolicy

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/policyview/lib/codec"
)

const (
	// watchPollInterval bounds how long the watch loop blocks before
	// checking for Close.
	watchPollInterval = 100 * time.Millisecond

	// watchDebounce coalesces bursts of writes into one re-read.
	watchDebounce = 50 * time.Millisecond
)

// Update is one observed change to a watched listing file.
type Update struct {
	// Listing is the complete new listing, ready for Files.Load.
	Listing Listing

	// Changed names documents that are new or whose content differs
	// from the previous snapshot, in listing order.
	Changed []string

	// Removed names documents no longer in the listing, sorted.
	Removed []string
}

// Watcher re-reads a listing file whenever it is rewritten and
// delivers the result on Updates. It never touches reactive state:
// the receiver applies each Listing on the goroutine that owns the
// view model.
type Watcher struct {
	path   string
	format codec.Format
	logger *slog.Logger

	updates chan Update
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// WatchListing reads the listing at path and starts watching it. The
// initial listing is returned alongside the watcher; later versions
// arrive on Updates. An empty format is inferred from the extension.
//
// The parent directory is watched for IN_CLOSE_WRITE and IN_MOVED_TO
// on the file name, which covers both in-place writes and atomic
// renames (a file-level watch would follow the old inode). A nil
// logger discards watcher diagnostics.
func WatchListing(path string, format codec.Format, logger *slog.Logger) (*Watcher, Listing, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return nil, Listing{}, err
	}
	if format == "" {
		format, err = codec.FormatForPath(absolutePath)
		if err != nil {
			return nil, Listing{}, err
		}
	}

	listing, err := ReadListing(absolutePath, format)
	if err != nil {
		return nil, Listing{}, err
	}
	snapshot, err := takeSnapshot(listing)
	if err != nil {
		return nil, Listing{}, err
	}

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, Listing{}, fmt.Errorf("inotify init: %w", err)
	}
	if _, err := unix.InotifyAddWatch(fd, filepath.Dir(absolutePath), unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO); err != nil {
		unix.Close(fd)
		return nil, Listing{}, fmt.Errorf("watch %s: %w", filepath.Dir(absolutePath), err)
	}

	watcher := &Watcher{
		path:    absolutePath,
		format:  format,
		logger:  logger,
		updates: make(chan Update, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.loop(fd, snapshot)
	return watcher, listing, nil
}

// Updates delivers listing changes. If the receiver falls behind,
// pending updates are merged so the newest listing always wins. The
// channel is closed when the watcher stops.
func (watcher *Watcher) Updates() <-chan Update {
	return watcher.updates
}

// Close stops the watcher and waits for its goroutine to exit. It is
// safe to call more than once.
func (watcher *Watcher) Close() {
	watcher.once.Do(func() { close(watcher.stop) })
	<-watcher.done
}

func (watcher *Watcher) loop(fd int, previous snapshot) {
	defer close(watcher.done)
	defer close(watcher.updates)
	defer unix.Close(fd)

	buffer := make([]byte, 4096)
	filename := filepath.Base(watcher.path)

	for {
		select {
		case <-watcher.stop:
			return
		default:
		}

		pollDescriptors := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		count, err := unix.Poll(pollDescriptors, int(watchPollInterval/time.Millisecond))
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			watcher.logger.Error("listing watcher stopped", "path", watcher.path, "error", err)
			return
		}
		if count == 0 {
			continue
		}

		bytesRead, err := unix.Read(fd, buffer)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			watcher.logger.Error("listing watcher stopped", "path", watcher.path, "error", err)
			return
		}
		if !inotifyMatchesFile(buffer[:bytesRead], filename) {
			continue
		}

		time.Sleep(watchDebounce)
		drainInotifyEvents(fd, buffer)

		listing, err := ReadListing(watcher.path, watcher.format)
		if err != nil {
			// Usually a writer caught mid-write; the event for the
			// completed write follows.
			watcher.logger.Warn("listing reload skipped", "path", watcher.path, "error", err)
			continue
		}
		current, err := takeSnapshot(listing)
		if err != nil {
			watcher.logger.Warn("listing reload skipped", "path", watcher.path, "error", err)
			continue
		}

		update, changed := diffSnapshots(previous, current)
		previous = current
		if !changed {
			continue
		}
		update.Listing = listing
		watcher.logger.Debug("listing reloaded",
			"path", watcher.path,
			"policies", len(listing.Policies),
			"changed", len(update.Changed),
			"removed", len(update.Removed),
		)
		watcher.publish(update)
	}
}

// publish hands update to the receiver without blocking. An update
// still waiting in the channel is folded into the new one.
func (watcher *Watcher) publish(update Update) {
	for {
		select {
		case watcher.updates <- update:
			return
		default:
		}
		select {
		case stale := <-watcher.updates:
			update = mergeUpdates(stale, update)
		default:
		}
	}
}

// mergeUpdates combines an undelivered update with a newer one so the
// name lists describe the change from what the receiver last saw.
func mergeUpdates(older, newer Update) Update {
	present := make(map[string]bool, len(newer.Listing.Policies))
	for _, data := range newer.Listing.Policies {
		present[data.Name] = true
	}

	changed := slices.Clone(newer.Changed)
	for _, name := range older.Changed {
		if present[name] && !slices.Contains(changed, name) {
			changed = append(changed, name)
		}
	}

	removed := slices.Clone(newer.Removed)
	for _, name := range older.Removed {
		if !present[name] && !slices.Contains(removed, name) {
			removed = append(removed, name)
		}
	}
	slices.Sort(removed)

	return Update{Listing: newer.Listing, Changed: changed, Removed: removed}
}

// snapshot records a BLAKE3 digest of every document in a listing,
// keyed by name, plus the listing order.
type snapshot struct {
	order   []string
	digests map[string][32]byte
}

// takeSnapshot digests the canonical CBOR encoding of each document.
// Entries sharing a name are digested together.
func takeSnapshot(listing Listing) (snapshot, error) {
	hashers := make(map[string]*blake3.Hasher, len(listing.Policies))
	result := snapshot{order: make([]string, 0, len(listing.Policies))}
	for _, data := range listing.Policies {
		encoded, err := codec.Marshal(data)
		if err != nil {
			return snapshot{}, fmt.Errorf("encode policy %q: %w", data.Name, err)
		}
		hasher, exists := hashers[data.Name]
		if !exists {
			hasher = blake3.New()
			hashers[data.Name] = hasher
			result.order = append(result.order, data.Name)
		}
		hasher.Write(encoded)
	}

	result.digests = make(map[string][32]byte, len(hashers))
	for name, hasher := range hashers {
		var digest [32]byte
		hasher.Sum(digest[:0])
		result.digests[name] = digest
	}
	return result, nil
}

// diffSnapshots reports which documents were added, changed or
// removed. A document whose position in the listing moved is reported
// as changed, so a pure reordering names every moved document.
func diffSnapshots(previous, current snapshot) (Update, bool) {
	previousIndex := make(map[string]int, len(previous.order))
	for index, name := range previous.order {
		previousIndex[name] = index
	}

	var update Update
	for index, name := range current.order {
		old, exists := previous.digests[name]
		if !exists || old != current.digests[name] || previousIndex[name] != index {
			update.Changed = append(update.Changed, name)
		}
	}
	for name := range previous.digests {
		if _, exists := current.digests[name]; !exists {
			update.Removed = append(update.Removed, name)
		}
	}
	slices.Sort(update.Removed)

	return update, len(update.Changed) > 0 || len(update.Removed) > 0
}

// inotifyMatchesFile checks whether any inotify event in the buffer
// names the target file. Layout from inotify(7):
//
//	struct inotify_event {
//	    int32_t  wd;     // offset 0
//	    uint32_t mask;   // offset 4
//	    uint32_t cookie; // offset 8
//	    uint32_t len;    // offset 12
//	    char     name[]; // offset 16, null-padded to alignment
//	};
func inotifyMatchesFile(buffer []byte, target string) bool {
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		eventSize := unix.SizeofInotifyEvent + nameLength
		if offset+eventSize > len(buffer) {
			break
		}
		if nameLength > 0 {
			name := buffer[offset+unix.SizeofInotifyEvent : offset+eventSize]
			if end := slices.Index(name, 0); end >= 0 {
				name = name[:end]
			}
			if string(name) == target {
				return true
			}
		}
		offset += eventSize
	}
	return false
}

// drainInotifyEvents discards pending events; the fd is non-blocking,
// so the first EAGAIN ends the loop.
func drainInotifyEvents(fd int, buffer []byte) {
	for {
		if _, err := unix.Read(fd, buffer); err != nil {
			return
		}
	}
}
