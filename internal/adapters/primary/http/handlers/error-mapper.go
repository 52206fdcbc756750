package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"agri-ml-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

func mapDomainError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	// Bad request / validation errors
	case domain.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Service unavailable errors
	case domain.IsLoadError(err),
		errors.Is(err, domain.ErrModelUnavailable):
		log.WithError(err).Error("model artifacts unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	// Inference errors
	case domain.IsModelError(err):
		log.WithError(err).Error("model inference failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

	default:
		log.WithError(err).Error("unexpected prediction error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindRecord validates the body against req and decodes it again as a
// domain.FeatureRecord. Numbers in the record stay json.Number so the echoed
// input matches what the client sent.
func bindRecord(c *gin.Context, req any) (domain.FeatureRecord, bool) {
	if err := c.ShouldBindBodyWith(req, binding.JSON); err != nil {
		badRequest(c, requestError(err))
		return nil, false
	}

	body, _ := c.Get(gin.BodyBytesKey)
	raw, _ := body.([]byte)

	var record domain.FeatureRecord
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&record); err != nil || record == nil {
		if err == nil {
			err = errors.New("request body must be a JSON object")
		}
		badRequest(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return nil, false
	}
	return record, true
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// requestError turns binding failures into validation errors named by the
// JSON field.
func requestError(err error) error {
	var (
		verrs     validator.ValidationErrors
		typeError *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		return fmt.Errorf("%w: %w: %s", domain.ErrInvalidInput, domain.ErrMissingField, verrs[0].Field())
	case errors.As(err, &typeError) && typeError.Field != "":
		kind := domain.ErrNonNumericField
		if typeError.Type != nil && typeError.Type.Kind() == reflect.String {
			kind = domain.ErrNonStringField
		}
		return fmt.Errorf("%w: %w: %s", domain.ErrInvalidInput, kind, typeError.Field)
	default:
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
}

var registerFieldNames sync.Once

// useJSONFieldNames makes validation errors report the JSON key instead of
// the Go field name.
func useJSONFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}
