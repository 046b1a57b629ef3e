package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/models"
)

// GetIDParam reads a numeric path parameter such as :id.
func GetIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New("ID not found")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, errors.New("Invalid ID")
	}

	return uint(id), nil
}

// GetPagination reads page/size query values, clamped to sane bounds.
func GetPagination(ctx *gin.Context) (page, size int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err = strconv.Atoi(ctx.DefaultQuery("size", "10"))
	if err != nil || size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}

	return page, size
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func ParseDate(value string) (models.Date, error) {
	value = strings.TrimSpace(value)

	if t, err := time.Parse("2006-01-02", value); err == nil {
		return models.NewDate(t), nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return models.Date{}, errors.New("invalid date, expected YYYY-MM-DD")
	}

	return models.NewDate(t), nil
}

// ParseOptionalDate returns nil for a nil or empty value.
func ParseOptionalDate(value *string) (*models.Date, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}

	d, err := ParseDate(*value)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// ParseFlexibleBool accepts a JSON boolean or the strings true/True/1 and
// false/False/0. Anything else is an error.
func ParseFlexibleBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	}
	return false, errors.New("invalid boolean")
}
