package photoHandler

import (
	"context"
	"net/url"
	"strconv"

	"PhotoAnalyzer/internal/api/photo"
	contextPkg "PhotoAnalyzer/pkg/context"
	"PhotoAnalyzer/pkg/handlerUtil"
	"PhotoAnalyzer/pkg/log"
	"github.com/gofiber/fiber/v2"
)

func (h *PhotoHandler) Report(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.reportTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing photo report request")

	report, err := h.photoService.Report(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "report")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, report)
	}
}

func (h *PhotoHandler) Compare(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	source, err := h.objectKeyParam(ctx, "sourceImage")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}
	target, err := h.objectKeyParam(ctx, "targetImage")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	// a zero threshold lets the service apply its configured default
	req := photo.CompareRequest{
		SourceImage: source,
		TargetImage: target,
	}
	if raw := ctx.Query("threshold"); raw != "" {
		threshold, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
		req.Threshold = threshold
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"source":     req.SourceImage,
		"target":     req.TargetImage,
	}).Debug("Processing photo compare request")

	result, err := h.photoService.Compare(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "compare")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *PhotoHandler) History(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	key, err := h.objectKeyParam(ctx, "key")
	if err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	items, err := h.photoService.History(c, key)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "history")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, items)
}

// objectKeyParam returns the unescaped path parameter so keys with
// encoded slashes or spaces reach the bucket as written.
func (h *PhotoHandler) objectKeyParam(ctx *fiber.Ctx, name string) (string, error) {
	key, err := url.PathUnescape(ctx.Params(name))
	if err != nil {
		return "", err
	}
	if err := h.utils.ValidateObjectKey(key); err != nil {
		return "", err
	}
	return key, nil
}
