package reelpredictor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// videoExts are the file extensions picked up from the inbox
var videoExts = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".m4v":  true,
	".webm": true,
	".avi":  true,
	".mkv":  true,
}

// InboxEntry is a video waiting in the inbox together with its caption sidecar
type InboxEntry struct {
	VideoPath string
	Caption   string
}

// ScanInbox lists videos in dir, sorted by name. The caption of clip.mp4 is read from
// clip<captionExt>; a missing sidecar gives an empty caption.
func ScanInbox(dir, captionExt string) ([]InboxEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read inbox %s: %w", dir, err)
	}

	var reels []InboxEntry
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !videoExts[ext] {
			continue
		}

		videoPath := filepath.Join(dir, entry.Name())
		caption, err := readCaption(strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + captionExt)
		if err != nil {
			return nil, err
		}

		reels = append(reels, InboxEntry{
			VideoPath: videoPath,
			Caption:   caption,
		})
	}

	sort.Slice(reels, func(i, j int) bool { return reels[i].VideoPath < reels[j].VideoPath })
	return reels, nil
}

func readCaption(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read caption %s: %w", path, err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
