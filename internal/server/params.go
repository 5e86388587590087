package server

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report fields by their query parameter name
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := f.Tag.Get("query"); name != "" {
				return name
			}
			return f.Name
		})
	})
	return validate
}

type recommendationParams struct {
	Query string  `query:"q" validate:"max=1000"`
	Liked []int64 `query:"liked" validate:"max=500"`
	K     int     `query:"k" validate:"min=1"`
}

type itemsParams struct {
	Offset int `query:"offset" validate:"min=0"`
	Limit  int `query:"limit" validate:"min=1,max=1000"`
}

// parseRecommendationParams reads q, liked and k. liked may be repeated and
// each value may hold a comma-separated list.
func parseRecommendationParams(q url.Values, defaultK int) (recommendationParams, error) {
	p := recommendationParams{Query: q.Get("q"), K: defaultK, Liked: []int64{}}

	for _, v := range q["liked"] {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return p, fmt.Errorf("liked: %q is not an item id", part)
			}
			p.Liked = append(p.Liked, id)
		}
	}

	if v := q.Get("k"); v != "" {
		k, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return p, fmt.Errorf("k: %q is not an integer", v)
		}
		p.K = k
	}
	return p, nil
}

func parseItemsParams(q url.Values) (itemsParams, error) {
	p := itemsParams{Offset: 0, Limit: 100}
	for name, dst := range map[string]*int{"offset": &p.Offset, "limit": &p.Limit} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return p, fmt.Errorf("%s: %q is not an integer", name, v)
			}
			*dst = n
		}
	}
	return p, nil
}

// validateParams checks struct tags, plus k against the configured maximum.
func validateParams(p any, maxK int) error {
	v := getValidator()
	if err := v.Struct(p); err != nil {
		return describe(err)
	}
	if rp, ok := p.(recommendationParams); ok {
		if err := v.Var(rp.K, "max="+strconv.Itoa(maxK)); err != nil {
			return fmt.Errorf("k must be at most %d", maxK)
		}
	}
	return nil
}

// describe turns validator errors into one readable message.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			switch fe.Kind() {
			case reflect.String:
				msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
			case reflect.Slice:
				msgs = append(msgs, fmt.Sprintf("%s must have at most %s entries", fe.Field(), fe.Param()))
			default:
				msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
			}
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
