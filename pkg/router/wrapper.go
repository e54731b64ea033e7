package router

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"

	"github.com/chore-quest/backend/pkg/errorx"
	"github.com/chore-quest/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := xcontext.WithHTTPRequest(router.ctx, r)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		err := func() error {
			if r.Method != method {
				return errorx.New(errorx.BadRequest, "Not supported method %s", r.Method)
			}

			var req Request
			switch method {
			case http.MethodGet:
				if err := bindQuery(r, &req); err != nil {
					return errorx.New(errorx.BadRequest, "Cannot bind the request")
				}
			case http.MethodPost:
				if r.Body != http.NoBody {
					if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
						return errorx.New(errorx.BadRequest, "Cannot parse the request body")
					}
				}
			}

			for _, before := range router.befores {
				newCtx, err := before(ctx)
				if err != nil {
					return err
				}

				ctx = newCtx
			}

			resp, err := handler(ctx, &req)
			if err != nil {
				return err
			}

			for _, after := range router.afters {
				if err := after(ctx, resp); err != nil {
					return err
				}
			}

			return writeJSON(w, newResponse(resp))
		}()

		if err != nil {
			if werr := writeJSON(w, newErrorResponse(err)); werr != nil {
				xcontext.Logger(ctx).Errorf("Cannot write the error response: %v", werr)
			}
		}

		for _, closer := range router.closers {
			closer(ctx, err)
		}
	}
}

// bindQuery fills req from URL query parameters, matching keys against json
// tags. Only the flat types used by GET requests are supported.
func bindQuery(r *http.Request, req any) error {
	value := reflect.ValueOf(req).Elem()
	structType := value.Type()

	for i := 0; i < structType.NumField(); i++ {
		name := structType.Field(i).Tag.Get("json")
		if name == "" || name == "-" {
			continue
		}

		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}

		field := value.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Int, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(n)
		case reflect.Uint, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return err
			}
			field.SetUint(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return err
			}
			field.SetBool(b)
		}
	}

	return nil
}
