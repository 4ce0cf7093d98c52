package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/discolinks/discolinks"
	coreErrors "github.com/discolinks/discolinks/pkg/core/errors"
	"github.com/discolinks/discolinks/pkg/core/export"
	"github.com/discolinks/discolinks/pkg/core/naming"
	"github.com/discolinks/discolinks/pkg/core/playback"
	"github.com/discolinks/discolinks/pkg/core/selector"
)

// API defines the remote calls the pipeline needs. *discolinks.Client implements it.
type API interface {
	AcquireToken(ctx context.Context, realm string) (string, error)
	ResolveShowID(ctx context.Context, assetID string) (string, error)
	ListAllEpisodes(ctx context.Context, showID string) (*discolinks.ShowListing, error)
	playback.Source
}

// Ensure the client implements API
var _ API = (*discolinks.Client)(nil)

// SinkFactory opens the export sink for a show. It is only called once selection succeeded.
type SinkFactory func(show discolinks.Show) (export.Sink, error)

// XLSXSinkFactory stores workbooks named after the show in dir, never overwriting earlier exports.
func XLSXSinkFactory(fs afero.Fs, dir string, logger *log.Logger) SinkFactory {
	return func(show discolinks.Show) (export.Sink, error) {
		path, err := naming.OutputPath(fs, dir, show.Name, export.Extension)
		if err != nil {
			return nil, err
		}
		return export.NewXLSX(fs, path, logger)
	}
}

// Options tunes a Processor.
type Options struct {
	Retry      playback.Options // Backoff for playback lookups; its Logger defaults to the processor's
	Downloader string           // Tool named in download commands
	Strict     bool             // Treat failed episodes and skipped pages as an error
}

// Request describes one run.
type Request struct {
	ID       string // Show id, or asset id when IsAsset is set
	IsAsset  bool
	Realm    string
	Criteria selector.Criteria
}

// Validate checks everything that can be checked without a request.
func (r Request) Validate() error {
	if err := r.Criteria.Validate(); err != nil {
		return err
	}
	if err := discolinks.ValidateRealm(r.Realm); err != nil {
		return err
	}
	if r.ID == "" {
		return fmt.Errorf("%w: no show or asset id given", coreErrors.ErrUsage)
	}
	return nil
}

// Selection is the filtered episode list of a show.
type Selection struct {
	Show         discolinks.Show
	Episodes     []discolinks.Episode
	Total        int   // Episodes listed before filtering
	SkippedPages []int // Listing pages that failed to load
}

// Failure is an episode whose playback link could not be resolved.
type Failure struct {
	Episode  discolinks.Episode
	FileName string
	Attempts int
	Err      error
}

// Report summarises a run.
type Report struct {
	Show         discolinks.Show
	Total        int
	Selected     int
	Resolved     int
	Failures     []Failure
	SkippedPages []int
	Waited       time.Duration // Total rate-limit backoff
	OutputPath   string
	Rows         int
	Aborted      bool // Cancelled before every selected episode was processed
}

// Partial reports whether anything was skipped.
func (r *Report) Partial() bool {
	return len(r.Failures) > 0 || len(r.SkippedPages) > 0 || r.Aborted
}

// Processor runs the export pipeline: token, show resolution, listing, selection,
// link lookup and export.
type Processor struct {
	api        API
	fetcher    *playback.Fetcher
	newSink    SinkFactory
	downloader string
	strict     bool
	logger     *log.Logger
}

// NewProcessor creates a new Processor instance.
func NewProcessor(api API, newSink SinkFactory, opts Options, logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.New()
		logger.SetFormatter(&log.TextFormatter{})
		logger.SetOutput(os.Stderr)
		logger.SetLevel(log.InfoLevel)
	}
	retry := opts.Retry
	if retry.Logger == nil {
		retry.Logger = logger
	}
	downloader := opts.Downloader
	if downloader == "" {
		downloader = naming.DefaultDownloader
	}
	return &Processor{
		api:        api,
		fetcher:    playback.NewFetcher(api, retry),
		newSink:    newSink,
		downloader: downloader,
		strict:     opts.Strict,
		logger:     logger,
	}
}

// Select authenticates, resolves the show and returns the episodes matching the request.
// The request is validated before anything is sent.
func (p *Processor) Select(ctx context.Context, req Request) (*Selection, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p.logger.WithField("realm", req.Realm).Info("Getting token...")
	if _, err := p.api.AcquireToken(ctx, req.Realm); err != nil {
		return nil, fmt.Errorf("could not get token: %w", err)
	}

	showID := req.ID
	if req.IsAsset {
		p.logger.WithField("asset_id", req.ID).Info("Resolving asset...")
		id, err := p.api.ResolveShowID(ctx, req.ID)
		if err != nil {
			return nil, fmt.Errorf("could not resolve asset %s: %w", req.ID, err)
		}
		showID = id
	}

	p.logger.WithField("show_id", showID).Info("Getting show...")
	listing, err := p.api.ListAllEpisodes(ctx, showID)
	if err != nil {
		return nil, fmt.Errorf("could not list show %s: %w", showID, err)
	}
	p.logger.Infof("=> %s (%d episodes)", listing.Show.Name, len(listing.Episodes))

	episodes, err := selector.Select(listing.Episodes, req.Criteria)
	if err != nil {
		return nil, err
	}
	p.logger.WithField("show_id", showID).Infof("Selected %s: %d of %d", req.Criteria, len(episodes), len(listing.Episodes))

	return &Selection{
		Show:         listing.Show,
		Episodes:     episodes,
		Total:        len(listing.Episodes),
		SkippedPages: listing.SkippedPages,
	}, nil
}

// Run executes the whole pipeline and writes one row per selected episode. Rows of
// episodes without a link keep Link and Command empty and are listed in Report.Failures.
// The sink is closed on every path once opened; on cancellation the rows written so far
// are saved and the context error is returned with the report.
func (p *Processor) Run(ctx context.Context, req Request) (report *Report, err error) {
	selection, err := p.Select(ctx, req)
	if err != nil {
		return nil, err
	}

	report = &Report{
		Show:         selection.Show,
		Total:        selection.Total,
		Selected:     len(selection.Episodes),
		SkippedPages: selection.SkippedPages,
	}

	sink, err := p.newSink(selection.Show)
	if err != nil {
		return report, fmt.Errorf("could not open output: %w", err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			p.logger.WithError(cerr).Warn("Failed to close output")
			if err == nil {
				err = cerr
			}
		}
	}()
	report.OutputPath = sink.Path()

	for i, episode := range selection.Episodes {
		if ctx.Err() != nil {
			report.Aborted = true
			break
		}
		entry := p.logger.WithField("episode_id", episode.ID)
		entry.Infof("Getting link %d of %d: %s", i+1, len(selection.Episodes), episode)
		if episode.DRMEnabled {
			entry.Warn("Episode is DRM protected, the link will probably not be downloadable")
		}

		fileName := naming.EpisodeFileName(selection.Show.Name, episode)
		row := export.Row{
			Name:        episode.Name.OrEmpty(),
			Description: episode.Description.OrEmpty(),
			FileName:    fileName,
		}

		result, fetchErr := p.fetcher.Fetch(ctx, episode.ID)
		report.Waited += result.Waited
		switch {
		case fetchErr == nil:
			row.Link = result.Link
			row.Command = naming.DownloadCommand(p.downloader, result.Link, fileName)
			report.Resolved++
		case errors.Is(fetchErr, context.Canceled) || errors.Is(fetchErr, context.DeadlineExceeded):
			report.Aborted = true
		default:
			entry.WithError(fetchErr).Error("Could not get link")
			report.Failures = append(report.Failures, Failure{
				Episode:  episode,
				FileName: fileName,
				Attempts: result.Attempts,
				Err:      fetchErr,
			})
		}
		if report.Aborted {
			break
		}

		if err := sink.WriteRow(row); err != nil {
			return report, fmt.Errorf("could not write row for episode %s: %w", episode.ID, err)
		}
		report.Rows++
	}

	if err := sink.Save(); err != nil {
		return report, fmt.Errorf("could not save output: %w", err)
	}

	if report.Aborted {
		p.logger.Warnf("Interrupted, saved %d of %d rows", report.Rows, report.Selected)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}
		return report, context.Canceled
	}
	if p.strict && report.Partial() {
		return report, fmt.Errorf("%w: %d episodes without link, %d pages skipped",
			coreErrors.ErrPartialExport, len(report.Failures), len(report.SkippedPages))
	}
	return report, nil
}
