package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/album-proxy/pkg/cache"
	"github.com/Sternrassler/album-proxy/pkg/media"
	"github.com/Sternrassler/album-proxy/pkg/proxy"
)

type errorBody struct {
	Error string `json:"error"`
}

type handlers struct {
	service *proxy.Service
	logger  zerolog.Logger
}

var albumCacheControl = cache.PolicyFor(media.KindAlbum, "").CacheControl()

func (h *handlers) albums(c echo.Context) error {
	albums, err := h.service.Albums(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	c.Response().Header().Set("Cache-Control", albumCacheControl)
	return c.JSON(http.StatusOK, albums)
}

func (h *handlers) album(c echo.Context) error {
	a, err := h.service.Album(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	c.Response().Header().Set("Cache-Control", albumCacheControl)
	return c.JSON(http.StatusOK, a)
}

func (h *handlers) asset(c echo.Context) error {
	return h.media(c, proxy.MediaRequest{
		Kind:  media.KindOriginal,
		RawID: c.Param("assetId"),
	})
}

func (h *handlers) thumbnail(c echo.Context) error {
	return h.media(c, proxy.MediaRequest{
		Kind:    media.KindThumbnail,
		RawID:   c.Param("assetId"),
		RawSize: c.QueryParam("size"),
	})
}

func (h *handlers) media(c echo.Context, req proxy.MediaRequest) error {
	req.Conditional = cache.ConditionalFromHeader(c.Request().Header)

	resp, err := h.service.Media(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}

	header := c.Response().Header()
	for k, v := range resp.Header {
		header[k] = v
	}
	if resp.Status == http.StatusNotModified || c.Request().Method == http.MethodHead {
		return c.NoContent(resp.Status)
	}
	return c.Blob(resp.Status, header.Get("Content-Type"), resp.Body)
}

// fail writes the generic browser message for err. Details were already
// logged by the service. Single-resource routes answer in plain text; only
// the album index uses a JSON error body.
func (h *handlers) fail(c echo.Context, err error) error {
	if pErr := proxy.AsError(err); pErr != nil {
		if pErr.Kind == proxy.ErrorKindListFailure {
			return c.JSON(pErr.Status, errorBody{Error: pErr.Message()})
		}
		return c.String(pErr.Status, pErr.Message())
	}
	h.logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("Unhandled request error")
	return c.JSON(http.StatusInternalServerError, errorBody{Error: "Internal server error"})
}
