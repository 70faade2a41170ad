package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"alcyxob/plants-manager/internal/domain"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pathID parses an ObjectID path parameter, aborting with 400 when it is malformed.
func pathID(c *gin.Context, param, label string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID format.", label))
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseDate(value, field string) (time.Time, error) {
	d, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q, expected YYYY-MM-DD", field, value)
	}
	return d, nil
}

func optionalDate(value *string, field string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	d, err := parseDate(*value, field)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func optionalID(value *string, field string) (*primitive.ObjectID, error) {
	if value == nil {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(*value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", field, *value)
	}
	return &id, nil
}

// queryDate reads a required YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, key string) (time.Time, bool) {
	value, ok := c.GetQuery(key)
	if !ok || value == "" {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Query parameter %s is required.", key))
		return time.Time{}, false
	}
	d, err := parseDate(value, key)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return time.Time{}, false
	}
	return d, true
}

// queryInt reads an optional integer query parameter within [min, max].
func queryInt(c *gin.Context, key string, def, min, max int) (int, bool) {
	value, ok := c.GetQuery(key)
	if !ok || value == "" {
		return def, true
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < min || n > max {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Query parameter %s must be an integer between %d and %d.", key, min, max))
		return 0, false
	}
	return n, true
}

func queryBool(c *gin.Context, key string) (bool, bool) {
	value, ok := c.GetQuery(key)
	if !ok || value == "" {
		return false, true
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Query parameter %s must be true or false.", key))
		return false, false
	}
	return b, true
}

func dateString(t time.Time) string {
	return domain.FormatDate(t)
}

func dateStringPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := domain.FormatDate(*t)
	return &s
}

func hexPtr(id *primitive.ObjectID) *string {
	if id == nil {
		return nil
	}
	s := id.Hex()
	return &s
}
