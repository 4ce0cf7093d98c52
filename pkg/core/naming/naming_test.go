package naming

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samber/mo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discolinks/discolinks"
)

func TestEpisodeFileName(t *testing.T) {
	cases := []struct {
		name    string
		show    string
		episode discolinks.Episode
		want    string
	}{
		{
			name:    "SeasonAndEpisode",
			show:    "Steel Buddies",
			episode: discolinks.Episode{ID: "1", Name: mo.Some("The Big Job"), Season: mo.Some(2), Number: mo.Some(5)},
			want:    "Steel Buddies - S02E05 - The Big Job",
		},
		{
			name:    "EpisodeOnly",
			show:    "Show",
			episode: discolinks.Episode{ID: "1", Name: mo.Some("Pilot"), Number: mo.Some(3)},
			want:    "Show - E03 - Pilot",
		},
		{
			name:    "Special",
			show:    "Show",
			episode: discolinks.Episode{ID: "1", Name: mo.Some("Christmas Special")},
			want:    "Show - Christmas Special",
		},
		{
			name:    "SeasonWithoutEpisode",
			show:    "Show",
			episode: discolinks.Episode{ID: "1", Name: mo.Some("Recap"), Season: mo.Some(4)},
			want:    "Show - Recap",
		},
		{
			name:    "MissingNameUsesID",
			show:    "Show",
			episode: discolinks.Episode{ID: "6411", Season: mo.Some(1), Number: mo.Some(12)},
			want:    "Show - S01E12 - 6411",
		},
		{
			name:    "ThreeDigitNumber",
			show:    "Show",
			episode: discolinks.Episode{ID: "1", Name: mo.Some("x"), Season: mo.Some(1), Number: mo.Some(123)},
			want:    "Show - S01E123 - x",
		},
		{
			name:    "PathSeparators",
			show:    "AC/DC",
			episode: discolinks.Episode{ID: "1", Name: mo.Some(`Live\Loud/Part 2`), Season: mo.Some(1), Number: mo.Some(1)},
			want:    "AC-DC - S01E01 - Live-Loud-Part 2",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EpisodeFileName(tc.show, tc.episode)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, EpisodeFileName(tc.show, tc.episode), "Should be deterministic")
		})
	}
}

func TestDownloadCommand(t *testing.T) {
	cases := []struct {
		name       string
		downloader string
		link       string
		fileName   string
		want       string
	}{
		{"Plain", "youtube-dl", "https://cdn/x.m3u8", "Show - E01 - A", `youtube-dl 'https://cdn/x.m3u8' -o 'Show - E01 - A.mp4'`},
		{"DefaultDownloader", "", "u", "f", `youtube-dl 'u' -o 'f.mp4'`},
		{"DoubleQuotes", "yt-dlp", "u", `The "Best" One`, `yt-dlp 'u' -o 'The "Best" One.mp4'`},
		{"SingleQuote", "yt-dlp", "u", "Geissens' Yacht", `yt-dlp 'u' -o 'Geissens'\'' Yacht.mp4'`},
		{"CommandSubstitution", "yt-dlp", "u", "$(echo INJECTED)", `yt-dlp 'u' -o '$(echo INJECTED).mp4'`},
		{"Backtick", "yt-dlp", "u", "`id`", "yt-dlp 'u' -o '`id`.mp4'"},
		{"TrailingBackslash", "yt-dlp", "u", `Back\`, `yt-dlp 'u' -o 'Back\.mp4'`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DownloadCommand(tc.downloader, tc.link, tc.fileName))
		})
	}
}

func TestDownloadCommandIsLiteralInShell(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	names := []string{
		"$(echo INJECTED)",
		"`echo INJECTED`",
		`Back\"slash`,
		`Back\`,
		"It's $HOME",
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			link := "https://cdn.example/a.m3u8?x=1&y=$2"
			command := DownloadCommand(`printf '%s\n'`, link, name)

			out, err := exec.Command(sh, "-c", command).Output()
			require.NoError(t, err, command)

			args := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
			assert.Equal(t, []string{link, "-o", name + ".mp4"}, args)
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	t.Run("ReplacesSpaces", func(t *testing.T) {
		assert.Equal(t, "Steel_Buddies", SanitizeFileName("  Steel Buddies  "))
	})

	t.Run("StripsOtherCharacters", func(t *testing.T) {
		assert.Equal(t, "Die_Geissens_Eine_schrecklich_glamourse_Familie",
			SanitizeFileName("Die Geissens: Eine schrecklich glamouröse Familie!"))
		assert.Equal(t, "abc.x-y", SanitizeFileName("a/b\\c?.x-y"))
	})

	t.Run("FallsBackWhenEmpty", func(t *testing.T) {
		for _, name := range []string{"!!!", "", ".."} {
			assert.Equal(t, "export", SanitizeFileName(name), "%q", name)
		}
	})
}

func TestNextFreePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "out"
	require.NoError(t, fs.MkdirAll(dir, 0o755))

	p, err := NextFreePath(fs, dir, "Show", ".xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Show.xlsx"), p, "Should use the plain name when free")

	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "Show.xlsx"), []byte("x"), 0o644))
	p, err = NextFreePath(fs, dir, "Show", ".xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Show-1.xlsx"), p)

	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "Show-1.xlsx"), []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, "Show-3.xlsx"), []byte("x"), 0o644))
	p, err = NextFreePath(fs, dir, "Show", ".xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Show-2.xlsx"), p, "Should pick the lowest unused suffix")
}

func TestOutputPath(t *testing.T) {
	fs := afero.NewMemMapFs()

	p, err := OutputPath(fs, "exports", "Steel Buddies", ".xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("exports", "Steel_Buddies.xlsx"), p)

	exists, err := afero.DirExists(fs, "exports")
	require.NoError(t, err)
	assert.True(t, exists)
}
