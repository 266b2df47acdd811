package resolution

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"memberportal/internal/backend"
	dErrors "memberportal/pkg/domain-errors"
)

//go:generate mockgen -source=geo.go -destination=mocks/geo_mocks.go -package=mocks GeoClient

// GeoClient serves the geo search lists.
type GeoClient interface {
	Provinces(ctx context.Context, query string) ([]backend.Option, error)
	Municipalities(ctx context.Context, province, query string) ([]backend.Option, error)
	Wards(ctx context.Context, province, municipality, query string) ([]backend.Option, error)
	VotingStations(ctx context.Context, ward, query string) ([]backend.Option, error)
}

// DefaultWardPrefixes maps a province, by code or name, to the prefix every
// ward code in it carries.
var DefaultWardPrefixes = map[string]string{
	"gp":      "79800",
	"gauteng": "79800",
}

const wardSuffixDigits = 3

// Geo serves the province/municipality/ward/voting-station pick lists.
type Geo struct {
	client   GeoClient
	prefixes map[string]string
	logger   *slog.Logger
}

type GeoOption func(*Geo)

// WithWardPrefixes replaces the province to ward-prefix table. Keys are
// matched case-insensitively.
func WithWardPrefixes(p map[string]string) GeoOption {
	return func(g *Geo) {
		g.prefixes = make(map[string]string, len(p))
		for k, v := range p {
			g.prefixes[strings.ToLower(k)] = v
		}
	}
}

func WithGeoLogger(l *slog.Logger) GeoOption {
	return func(g *Geo) {
		if l != nil {
			g.logger = l
		}
	}
}

func NewGeo(client GeoClient, opts ...GeoOption) *Geo {
	g := &Geo{client: client, prefixes: DefaultWardPrefixes, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Cascade is the pair of lists needed to render the first two selectors.
type Cascade struct {
	Provinces      []backend.Option `json:"provinces"`
	Municipalities []backend.Option `json:"municipalities"`
}

func (g *Geo) Provinces(ctx context.Context, query string) ([]backend.Option, error) {
	opts, err := g.client.Provinces(ctx, strings.TrimSpace(query))
	return opts, g.wrap(ctx, err, "province lookup failed")
}

func (g *Geo) Municipalities(ctx context.Context, province, query string) ([]backend.Option, error) {
	if province == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "province is required")
	}
	opts, err := g.client.Municipalities(ctx, province, strings.TrimSpace(query))
	return opts, g.wrap(ctx, err, "municipality lookup failed")
}

// Wards searches wards, normalizing short numeric queries into full ward codes.
func (g *Geo) Wards(ctx context.Context, province, municipality, query string) ([]backend.Option, error) {
	if province == "" || municipality == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "province and municipality are required")
	}
	opts, err := g.client.Wards(ctx, province, municipality, g.NormalizeWardQuery(province, query))
	return opts, g.wrap(ctx, err, "ward lookup failed")
}

func (g *Geo) VotingStations(ctx context.Context, ward, query string) ([]backend.Option, error) {
	if ward == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "ward is required")
	}
	opts, err := g.client.VotingStations(ctx, ward, strings.TrimSpace(query))
	return opts, g.wrap(ctx, err, "voting station lookup failed")
}

// CascadeFor fetches provinces and, when a province is given, its
// municipalities concurrently.
func (g *Geo) CascadeFor(ctx context.Context, province string) (*Cascade, error) {
	var out Cascade
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		opts, err := g.Provinces(egCtx, "")
		out.Provinces = opts
		return err
	})
	if province != "" {
		eg.Go(func() error {
			opts, err := g.Municipalities(egCtx, province, "")
			out.Municipalities = opts
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if out.Municipalities == nil {
		out.Municipalities = []backend.Option{}
	}
	return &out, nil
}

// NormalizeWardQuery turns a numeric partial ward number into the full ward
// code for provinces with a known prefix: "74" becomes "79800074". Full codes
// and free text pass through unchanged.
func (g *Geo) NormalizeWardQuery(province, query string) string {
	query = strings.TrimSpace(query)
	prefix, ok := g.prefixes[strings.ToLower(strings.TrimSpace(province))]
	if !ok || query == "" || len(query) > wardSuffixDigits || !allDigits(query) {
		return query
	}
	return prefix + strings.Repeat("0", wardSuffixDigits-len(query)) + query
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (g *Geo) wrap(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}
	g.logger.WarnContext(ctx, msg, "error", err)
	return backend.ToDomain(err, msg)
}
