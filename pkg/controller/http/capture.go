package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pagecap/pkg/domain/interfaces"
	"github.com/m-mizutani/pagecap/pkg/domain/model"
	"github.com/m-mizutani/pagecap/pkg/domain/types"
	"github.com/m-mizutani/pagecap/pkg/utils/async"
)

// SignatureHeader carries the HMAC-SHA256 of the request body
const SignatureHeader = "X-Pagecap-Signature"

const maxBodySize = 1 << 20

// captureRequest is the POST /capture body
type captureRequest struct {
	model.Request
	Async bool `json:"async,omitempty"`
}

// CaptureHandler serves capture requests
type CaptureHandler struct {
	captureUC  interfaces.CaptureUseCase
	settings   *model.Settings
	secret     string
	outputDir  string
	dispatcher *async.Dispatcher
}

// NewCaptureHandler creates a new CaptureHandler. An empty secret disables
// signature verification.
func NewCaptureHandler(captureUC interfaces.CaptureUseCase, settings *model.Settings, secret, outputDir string, dispatcher *async.Dispatcher) *CaptureHandler {
	return &CaptureHandler{
		captureUC:  captureUC,
		settings:   settings,
		secret:     secret,
		outputDir:  outputDir,
		dispatcher: dispatcher,
	}
}

// Handle processes capture requests
func (h *CaptureHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		logger.Warn("Failed to read request body", "error", err)
		writeError(w, r, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if h.secret != "" {
		signature := r.Header.Get(SignatureHeader)
		if !h.verifySignature(body, signature) {
			logger.Warn("Invalid capture request signature", "signature", signature)
			writeError(w, r, goerr.New("invalid signature"), http.StatusUnauthorized)
			return
		}
	}

	var req captureRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}
	if err := h.confine(&req.Request); err != nil {
		logger.Warn("Rejected capture request", "error", err, "url", req.URL)
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	} else if _, err := uuid.Parse(req.ID); err != nil {
		writeError(w, r, goerr.Wrap(err, "id must be a UUID", goerr.V("id", req.ID)), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}

	capture := req.Request
	if req.Async {
		h.dispatcher.Dispatch(ctx, "capture", func(ctx context.Context) error {
			_, err := h.captureUC.Download(ctx, h.settings, &capture)
			return err
		})
		writeJSON(w, r, http.StatusAccepted, map[string]string{"id": capture.ID})
		return
	}

	result, err := h.captureUC.Download(ctx, h.settings, &capture)
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to capture page", "error", err, "url", capture.URL)
		}
		writeError(w, r, err, status)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}

// allowedExtraFlags are SingleFile options a remote caller may set. Options
// naming executables, files or browser arguments are left out.
var allowedExtraFlags = map[string]bool{
	"--block-scripts":             true,
	"--block-images":              true,
	"--block-fonts":               true,
	"--block-audios":              true,
	"--block-videos":              true,
	"--compress-HTML":             true,
	"--compress-CSS":              true,
	"--load-deferred-images":      true,
	"--remove-hidden-elements":    true,
	"--remove-unused-styles":      true,
	"--remove-unused-fonts":       true,
	"--remove-frames":             true,
	"--remove-alternative-fonts":  true,
	"--remove-alternative-medias": true,
	"--remove-alternative-images": true,
	"--browser-wait-delay":        true,
	"--browser-load-max-time":     true,
	"--browser-width":             true,
	"--browser-height":            true,
	"--max-resource-size":         true,
	"--user-agent":                true,
}

var extraFlagPattern = regexp.MustCompile(`^(--[A-Za-z][A-Za-z0-9-]*)(=[^\x00-\x1f]*)?$`)

// confine applies server defaults and keeps remote input from choosing
// paths outside the output directory or arbitrary SingleFile options
func (h *CaptureHandler) confine(req *model.Request) error {
	for _, arg := range req.ExtraArgs {
		m := extraFlagPattern.FindStringSubmatch(arg)
		if m == nil || !allowedExtraFlags[m[1]] {
			return goerr.New("extra argument is not allowed",
				goerr.T(types.ErrTagInvalidRequest),
				goerr.V("arg", arg))
		}
	}

	if req.FilenameTemplate == "" {
		req.FilenameTemplate = model.DefaultFilename(req.URL)
	}
	name := req.FilenameTemplate
	if !filepath.IsLocal(name) || name == "." || strings.ContainsAny(name, `/\`) {
		return goerr.New("filename must be a plain file name",
			goerr.T(types.ErrTagInvalidRequest),
			goerr.V("filename", req.FilenameTemplate))
	}

	if h.outputDir == "" {
		return goerr.New("server has no output directory configured",
			goerr.T(types.ErrTagInvalidRequest))
	}
	base, err := filepath.Abs(h.outputDir)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve output directory", goerr.V("dir", h.outputDir))
	}

	dir := base
	if req.OutputDir != "" {
		dir = req.OutputDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}
		dir = filepath.Clean(dir)
		rel, err := filepath.Rel(base, dir)
		if err != nil || (rel != "." && !filepath.IsLocal(rel)) {
			return goerr.New("output_dir must be inside the server output directory",
				goerr.T(types.ErrTagInvalidRequest),
				goerr.V("output_dir", req.OutputDir))
		}
	}
	req.OutputDir = dir

	return nil
}

func statusOf(err error) int {
	switch {
	case goerr.HasTag(err, types.ErrTagInvalidRequest):
		return http.StatusBadRequest
	case goerr.HasTag(err, types.ErrTagAuth):
		return http.StatusUnprocessableEntity
	case goerr.HasTag(err, types.ErrTagTimeout):
		return http.StatusGatewayTimeout
	case goerr.HasTag(err, types.ErrTagProcess):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// verifySignature checks a "sha256=<hex>" HMAC of payload
func (h *CaptureHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}
	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedMAC))
}
