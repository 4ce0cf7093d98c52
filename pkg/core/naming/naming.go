package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/discolinks/discolinks"
)

// DefaultDownloader is the tool named in generated download commands.
const DefaultDownloader = "youtube-dl"

// fallbackBase is used when a show name sanitises to nothing.
const fallbackBase = "export"

var invalidFileChars = regexp.MustCompile(`[^-\w.]`)

// pathSeparators keeps names from the API from turning into directories.
var pathSeparators = strings.NewReplacer("/", "-", "\\", "-")

// EpisodeFileName derives the file name (without extension) for an episode:
//
//	"{show} - S{ss}E{ee} - {name}"  season and episode number present
//	"{show} - E{ee} - {name}"       only the episode number present
//	"{show} - {name}"               otherwise
//
// The episode id stands in for a missing name. Path separators in either name
// become '-'.
func EpisodeFileName(showName string, episode discolinks.Episode) string {
	showName = pathSeparators.Replace(showName)
	name := pathSeparators.Replace(episode.Name.OrElse(episode.ID))
	season, hasSeason := episode.Season.Get()
	number, hasNumber := episode.Number.Get()
	switch {
	case hasSeason && hasNumber:
		return fmt.Sprintf("%s - S%02dE%02d - %s", showName, season, number, name)
	case hasNumber:
		return fmt.Sprintf("%s - E%02d - %s", showName, number, name)
	}
	return fmt.Sprintf("%s - %s", showName, name)
}

// DownloadCommand pairs a link with a file name for an external downloader.
// Link and output path are single-quoted so the shell takes them literally.
func DownloadCommand(downloader, link, fileName string) string {
	if downloader == "" {
		downloader = DefaultDownloader
	}
	return fmt.Sprintf("%s %s -o %s", downloader, shellQuote(link), shellQuote(fileName+".mp4"))
}

// shellQuote wraps s in single quotes; an embedded ' becomes '\''.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// SanitizeFileName turns a show name into a safe file base name: surrounding space
// trimmed, spaces to underscores, anything but letters, digits, '-', '_' and '.' dropped.
func SanitizeFileName(name string) string {
	clean := strings.TrimSpace(name)
	clean = strings.ReplaceAll(clean, " ", "_")
	clean = invalidFileChars.ReplaceAllString(clean, "")
	if clean == "" || clean == "." || clean == ".." {
		return fallbackBase
	}
	return clean
}

// NextFreePath returns the first path in dir that does not exist yet, trying
// base+ext, then base-1+ext, base-2+ext and so on (lowest unused suffix).
func NextFreePath(fs afero.Fs, dir, base, ext string) (string, error) {
	candidate := filepath.Join(dir, base+ext)
	for i := 1; ; i++ {
		exists, err := afero.Exists(fs, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, i, ext))
	}
}

// OutputPath combines SanitizeFileName and NextFreePath for a show's workbook.
// dir is created when missing.
func OutputPath(fs afero.Fs, dir, showName, ext string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := fs.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return NextFreePath(fs, dir, SanitizeFileName(showName), ext)
}
