// Package supabase adaptadores de los puertos de catálogo y auth sobre la API REST de
// Supabase (PostgREST en /rest/v1 y GoTrue en /auth/v1). Usa net/http; no requiere SDK.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/aura-storefront/internal/domain"
	"github.com/jhoicas/aura-storefront/pkg/logger"
)

// maxBody límite de lectura de respuestas.
const maxBody = 8 << 20

// Config datos del proyecto.
type Config struct {
	URL     string // https://<proyecto>.supabase.co
	AnonKey string
	Timeout time.Duration
}

// Client cliente HTTP compartido por los adaptadores. Se crea una vez por proceso.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente.
func NewClient(cfg Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("supabase"),
	}
}

// request petición a la API. bearer vacío usa la anon key.
type request struct {
	op      string
	method  string
	path    string
	query   url.Values
	body    interface{}
	bearer  string
	headers map[string]string
}

// do ejecuta la petición y decodifica la respuesta en out (si no es nil).
// Respuestas no 2xx se devuelven como *domain.GatewayError.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("supabase %s: serializar body: %w", r.op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("supabase %s: crear request: %w", r.op, err)
	}
	bearer := r.bearer
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("supabase %s: timeout o cancelación: %w", r.op, ctx.Err())
		}
		return &domain.GatewayError{Op: r.op, Message: "servicio de datos no disponible", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("supabase %s: leer respuesta: %w", r.op, err)
	}
	c.log.Debug().Str("op", r.op).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("supabase")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(r.op, resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("supabase %s: decodificar respuesta: %w", r.op, err)
	}
	return nil
}

// errorBody cubre los formatos de error de PostgREST ({code, message, details, hint})
// y de GoTrue ({error, error_description} o {code, error_code, msg}).
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	Message          string          `json:"message"`
	Details          string          `json:"details"`
	Hint             string          `json:"hint"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
}

func decodeError(op string, status int, raw []byte) *domain.GatewayError {
	ge := &domain.GatewayError{Op: op, Status: status}
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		ge.Message = strings.TrimSpace(string(raw))
		if ge.Message == "" {
			ge.Message = http.StatusText(status)
		}
		return ge
	}

	switch {
	case eb.ErrorCode != "":
		ge.Code = eb.ErrorCode
	case eb.Error != "":
		ge.Code = eb.Error
	case len(eb.Code) > 0:
		var s string
		if json.Unmarshal(eb.Code, &s) == nil {
			ge.Code = s
		} else {
			var n int
			if json.Unmarshal(eb.Code, &n) == nil {
				ge.Code = strconv.Itoa(n)
			}
		}
	}

	for _, m := range []string{eb.Message, eb.Msg, eb.ErrorDescription, eb.Error} {
		if m != "" {
			ge.Message = m
			break
		}
	}
	if ge.Message == "" {
		ge.Message = http.StatusText(status)
	}
	return ge
}
