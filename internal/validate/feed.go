package validate

import (
	"strconv"
	"strings"

	"Buzz_Board/internal/apperr"
)

const MaxFeedLimit = 100

// FeedQuery 帖子列表分页参数，Page 从 1 开始
type FeedQuery struct {
	Limit    int    `json:"limit" validate:"feedlimit"`
	Page     int    `json:"page" validate:"min=1"`
	BuzzName string `json:"buzzName"`
}

// Offset 第 page 页跳过的条数：(page-1)*limit
func (q FeedQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ParseFeedQuery 在查询前完成全部参数校验，缺失或非数字一律是校验错误
func ParseFeedQuery(limit, page, buzzName string) (FeedQuery, error) {
	var issues []apperr.Issue
	l, ok := parsePositive(limit)
	if !ok {
		issues = append(issues, apperr.Issue{Field: "limit", Message: "must be a positive integer"})
	}
	p, ok := parsePositive(page)
	if !ok {
		issues = append(issues, apperr.Issue{Field: "page", Message: "must be a positive integer"})
	}
	if len(issues) > 0 {
		return FeedQuery{}, apperr.Validation("invalid pagination parameters", issues...)
	}

	q := FeedQuery{Limit: l, Page: p, BuzzName: strings.TrimSpace(buzzName)}
	if err := Struct("invalid pagination parameters", q); err != nil {
		return FeedQuery{}, err
	}
	return q, nil
}

func parsePositive(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
