// Package analyzer runs independent SEO checks against a target URL and
// aggregates their findings into an audit report.
package analyzer

import (
	"go.uber.org/zap"
)

// Analyzer runs the five audit checks. It is safe for concurrent use; no
// state is shared between requests.
type Analyzer struct {
	fetcher     *fetcher
	speed       speedSource
	metaRules   MetaRules
	headerRules []HeaderRule
	probeRules  ProbeRules
	log         *zap.Logger
}

// Options configures a new Analyzer.
type Options struct {
	// PageSpeedAPIKey authorizes calls to the external scoring API. When
	// empty, only the speed analyzer fails; the rest of the audit proceeds.
	PageSpeedAPIKey string

	// LinkCheckConcurrency bounds parallel link liveness probes.
	LinkCheckConcurrency int

	// BlockPrivateAddresses rejects outbound dials to private/reserved
	// address ranges.
	BlockPrivateAddresses bool

	Logger *zap.Logger
}

// New creates an Analyzer with the default rule tables.
func New(opts Options) *Analyzer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	probe := DefaultProbeRules
	if opts.LinkCheckConcurrency > 0 {
		probe.Concurrency = opts.LinkCheckConcurrency
	}

	f := newFetcher(opts.BlockPrivateAddresses)

	return &Analyzer{
		fetcher:     f,
		speed:       newPageSpeedClient(opts.PageSpeedAPIKey),
		metaRules:   DefaultMetaRules,
		headerRules: SecurityHeaderRules,
		probeRules:  probe,
		log:         log,
	}
}
