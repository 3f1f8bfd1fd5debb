package apihelpers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// PaginatedQuery carries the page window plus optional mongo sort and filter
// documents parsed from the request's query string.
type PaginatedQuery struct {
	Page   int64
	Limit  int64
	Sort   bson.M
	Filter bson.M
}

// ParsePaginatedQueryFromCtx reads page, limit, sort and filter query
// parameters. Sort and filter arrive as JSON documents and are passed to
// mongo as-is.
func ParsePaginatedQueryFromCtx(c *gin.Context) (*PaginatedQuery, error) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil {
		return nil, err
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil {
		return nil, err
	}

	query := PaginatedQuery{
		Page:   page,
		Limit:  limit,
		Sort:   bson.M{},
		Filter: bson.M{},
	}

	if sortStr := c.Query("sort"); sortStr != "" {
		if err := json.Unmarshal([]byte(sortStr), &query.Sort); err != nil {
			return nil, err
		}
	}
	if filterStr := c.Query("filter"); filterStr != "" {
		if err := json.Unmarshal([]byte(filterStr), &query.Filter); err != nil {
			return nil, err
		}
	}

	return &query, nil
}
