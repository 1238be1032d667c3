// Package proxy is the media service: it validates identifiers, answers
// conditional requests from computed validators and forwards everything
// else to the photo service.
package proxy

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/album-proxy/pkg/album"
	"github.com/Sternrassler/album-proxy/pkg/cache"
	"github.com/Sternrassler/album-proxy/pkg/identifier"
	"github.com/Sternrassler/album-proxy/pkg/logging"
	"github.com/Sternrassler/album-proxy/pkg/media"
)

// DefaultContentType is used when upstream omits Content-Type.
const DefaultContentType = "image/jpeg"

// MediaRequest is an inbound request for binary media.
type MediaRequest struct {
	Kind        media.Kind
	RawID       string
	RawSize     string
	Conditional cache.Conditional
}

// MediaResponse is the response to write back. Body is nil for 304.
type MediaResponse struct {
	Status int
	Header http.Header
	Body   []byte
}

// Service orchestrates validation, conditional caching and upstream fetches.
type Service struct {
	upstream Upstream
	logger   zerolog.Logger
}

// NewService creates a media service backed by up.
func NewService(up Upstream) *Service {
	return &Service{
		upstream: up,
		logger:   logging.NewLogger("media-service"),
	}
}

// Media serves an original asset or a thumbnail. A request whose validators
// match is answered with 304 without contacting upstream.
func (s *Service) Media(ctx context.Context, req MediaRequest) (*MediaResponse, error) {
	if !req.Kind.Binary() {
		return nil, fmt.Errorf("media kind %q is not binary", req.Kind)
	}

	var size media.Size
	if req.Kind == media.KindThumbnail {
		var err error
		size, err = media.ParseSize(req.RawSize)
		if err != nil {
			s.logger.Warn().Str("size", req.RawSize).Msg("Rejected thumbnail size")
			return nil, &Error{
				Kind:   ErrorKindInvalidSize,
				Status: http.StatusBadRequest,
				Media:  req.Kind,
				ID:     req.RawID,
				Err:    err,
			}
		}
	}

	id, err := s.parseID(req.Kind, req.RawID)
	if err != nil {
		return nil, err
	}

	policy := cache.PolicyFor(req.Kind, size)
	validators := cache.Compute(policy, id)

	if req.Conditional.Present() {
		cache.ConditionalRequests.WithLabelValues(string(req.Kind)).Inc()
	}

	if ok, validator := cache.NotModified(policy, validators, req.Conditional); ok {
		cache.NotModifiedResponses.WithLabelValues(string(req.Kind), string(validator)).Inc()
		s.logger.Debug().
			Str("kind", string(req.Kind)).
			Str("id", id.String()).
			Str("validator", string(validator)).
			Msg("Answered from client cache")

		header := http.Header{}
		cache.ApplyHeaders(header, policy, validators)
		return &MediaResponse{Status: http.StatusNotModified, Header: header}, nil
	}

	m, err := s.upstream.FetchMedia(ctx, req.Kind, id, size)
	if err != nil {
		return nil, s.notFound(req.Kind, id, err)
	}

	header := http.Header{}
	cache.ApplyHeaders(header, policy, validators)
	contentType := m.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}
	header.Set("Content-Type", contentType)
	header.Set("Content-Length", strconv.Itoa(len(m.Data)))

	return &MediaResponse{
		Status: http.StatusOK,
		Header: header,
		Body:   m.Data,
	}, nil
}

// Album returns one album with its assets.
func (s *Service) Album(ctx context.Context, rawID string) (*album.Album, error) {
	id, err := s.parseID(media.KindAlbum, rawID)
	if err != nil {
		return nil, err
	}

	a, err := s.upstream.FetchAlbum(ctx, id)
	if err != nil {
		return nil, s.notFound(media.KindAlbum, id, err)
	}
	return a, nil
}

// Albums returns every album.
func (s *Service) Albums(ctx context.Context) ([]album.Album, error) {
	albums, err := s.upstream.FetchAlbums(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch albums")
		return nil, &Error{
			Kind:   ErrorKindListFailure,
			Status: http.StatusInternalServerError,
			Err:    err,
		}
	}
	return albums, nil
}

// YearIndex returns albums grouped by start year, newest year first.
func (s *Service) YearIndex(ctx context.Context) (map[string][]album.Album, []string, error) {
	albums, err := s.Albums(ctx)
	if err != nil {
		return nil, nil, err
	}
	byYear, years := album.GroupByYear(albums)
	return byYear, years, nil
}

func (s *Service) parseID(kind media.Kind, raw string) (identifier.ID, error) {
	id, err := identifier.Parse(raw)
	if err != nil {
		s.logger.Warn().
			Str("kind", string(kind)).
			Str("id", raw).
			Msg("Rejected identifier")
		return "", &Error{
			Kind:   ErrorKindInvalidIdentifier,
			Status: http.StatusBadRequest,
			Media:  kind,
			ID:     raw,
			Err:    err,
		}
	}
	return id, nil
}

func (s *Service) notFound(kind media.Kind, id identifier.ID, err error) *Error {
	status := notFoundStatus(err)
	s.logger.Warn().
		Err(err).
		Str("kind", string(kind)).
		Str("id", id.String()).
		Int("status", status).
		Msg("Upstream fetch failed")

	return &Error{
		Kind:   ErrorKindNotFound,
		Status: status,
		Media:  kind,
		ID:     id.String(),
		Err:    err,
	}
}
