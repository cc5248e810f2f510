// Package validate parses untrusted payloads into typed inputs. Every parser
// returns either the typed value or an *apperr.Error of KindValidation that
// lists the field-level issues.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"Buzz_Board/internal/apperr"
	"Buzz_Board/internal/model"
)

var (
	once   sync.Once
	engine *validator.Validate
)

func v() *validator.Validate {
	once.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = engine.RegisterValidation("trimmin", trimMin)
		engine.RegisterAlias("buzzname", fmt.Sprintf("min=%d,max=%d", model.BuzzNameMin, model.BuzzNameMax))
		engine.RegisterAlias("feedlimit", fmt.Sprintf("min=1,max=%d", MaxFeedLimit))
	})
	return engine
}

// trimMin 去掉首尾空白后的字符数不小于参数
func trimMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
}

// Struct 校验结构体，失败时返回带字段问题列表的 Validation 错误
func Struct(msg string, s any) error {
	err := v().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(msg, apperr.Issue{Message: err.Error()})
	}
	issues := make([]apperr.Issue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, apperr.Issue{Field: fe.Field(), Message: describe(fe)})
	}
	return apperr.Validation(msg, issues...)
}

func describe(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must contain at least %s character(s)", fe.Param())
		}
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must contain at most %s character(s)", fe.Param())
		}
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "contains":
		return fmt.Sprintf("must contain %q", fe.Param())
	case "trimmin":
		return fmt.Sprintf("must contain at least %s non-blank character(s)", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed on the %q rule", fe.ActualTag())
	}
}
