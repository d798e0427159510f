package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/pricepanel-backend/api/responses"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/pricepanel-backend/pkg/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"

	defaultIdempotencyTTL = 24 * time.Hour
	importIdempotencyTTL  = 7 * 24 * time.Hour

	// pendingTTL bounds how long a crashed attempt keeps its key locked.
	pendingTTL = 10 * time.Minute
)

// idempotentRoutes maps "METHOD path" to how long the outcome is replayed.
var idempotentRoutes = map[string]time.Duration{
	http.MethodPost + " /api/admin/v1/imports":        importIdempotencyTTL,
	http.MethodPost + " /api/admin/v1/products":       defaultIdempotencyTTL,
	http.MethodPost + " /api/admin/v1/templates":      defaultIdempotencyTTL,
	http.MethodPost + " /api/admin/v1/advertisements": defaultIdempotencyTTL,
	http.MethodPost + " /api/admin/v1/devices":        defaultIdempotencyTTL,
}

type recordState string

const (
	statePending  recordState = "pending"
	stateComplete recordState = "complete"
)

type idempotencyRecord struct {
	State       recordState `json:"state"`
	RequestHash string      `json:"request_hash"`
	Status      int         `json:"status,omitempty"`
	ContentType string      `json:"content_type,omitempty"`
	Body        []byte      `json:"body,omitempty"`
}

func (rec idempotencyRecord) encode() (string, error) {
	raw, err := json.Marshal(rec)
	return string(raw), err
}

// Idempotency makes admin creates and catalog imports safe to retry under the
// same Idempotency-Key. The first attempt claims the key with a pending
// record; a completed attempt is replayed byte for byte. 5xx outcomes release
// the key. Bodies larger than maxBody are rejected before hashing.
func Idempotency(store pkgredis.IdempotencyStore, maxBody int64, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, ok := routeTTL(r.Method, r.URL.Path)
			if !ok || store == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if clientKey == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := readBody(r, maxBody)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := hashBody(normalizeMultipart(r.Header.Get("Content-Type"), body))
			key := store.IdempotencyKey(idempotencyScope(r), clientKey)

			claimed, err := claimKey(ctx, store, key, hash)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if !claimed {
				replayOrReject(ctx, logg, w, store, key, hash)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			if capture.statusCode() >= http.StatusInternalServerError {
				if err := store.Del(ctx, key); err != nil {
					logError(ctx, logg, "idempotency.release_failed", err)
				}
				return
			}

			payload, err := idempotencyRecord{
				State:       stateComplete,
				RequestHash: hash,
				Status:      capture.statusCode(),
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
			}.encode()
			if err == nil {
				err = store.Set(ctx, key, payload, ttl)
			}
			if err != nil {
				logError(ctx, logg, "idempotency.persist_failed", err)
			}
		})
	}
}

func claimKey(ctx context.Context, store pkgredis.IdempotencyStore, key, hash string) (bool, error) {
	pending, err := idempotencyRecord{State: statePending, RequestHash: hash}.encode()
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode idempotency record")
	}
	claimed, err := store.SetNX(ctx, key, pending, pendingTTL)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim idempotency key")
	}
	return claimed, nil
}

func replayOrReject(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, store pkgredis.IdempotencyStore, key, hash string) {
	stored, err := store.Get(ctx, key)
	if errors.Is(err, pkgredis.ErrNil) {
		// released between SetNX and Get
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this key is still in progress"))
		return
	}
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load idempotency record"))
		return
	}

	var rec idempotencyRecord
	if err := json.Unmarshal([]byte(stored), &rec); err != nil {
		if delErr := store.Del(ctx, key); delErr != nil {
			logError(ctx, logg, "idempotency.release_failed", delErr)
		}
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}

	switch {
	case rec.RequestHash != hash:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
	case rec.State != stateComplete:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this key is still in progress"))
	default:
		if rec.ContentType != "" {
			w.Header().Set("Content-Type", rec.ContentType)
		}
		w.Header().Set("Idempotent-Replayed", "true")
		w.WriteHeader(rec.Status)
		_, _ = w.Write(rec.Body)
	}
}

// idempotencyScope keeps keys from different admins and endpoints apart.
func idempotencyScope(r *http.Request) string {
	return strings.Join([]string{ActorFromContext(r.Context()), r.Method, r.URL.Path}, "|")
}

func readBody(r *http.Request, maxBody int64) ([]byte, error) {
	src := r.Body
	if maxBody > 0 {
		src = io.NopCloser(io.LimitReader(r.Body, maxBody+1))
	}
	body, err := io.ReadAll(src)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body")
	}
	if maxBody > 0 && int64(len(body)) > maxBody {
		return nil, pkgerrors.Newf(pkgerrors.CodeTooLarge, "request body exceeds %d bytes", maxBody)
	}
	return body, nil
}

// normalizeMultipart swaps the client-chosen boundary for a fixed token so
// retries of the same upload hash identically.
func normalizeMultipart(contentType string, body []byte) []byte {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") || params["boundary"] == "" {
		return body
	}
	return bytes.ReplaceAll(body, []byte(params["boundary"]), []byte("pricepanel-boundary"))
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func routeTTL(method, path string) (time.Duration, bool) {
	ttl, ok := idempotentRoutes[method+" "+strings.TrimSuffix(path, "/")]
	return ttl, ok
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (r *responseCapture) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg != nil && err != nil {
		logg.Error(ctx, msg, err)
	}
}
