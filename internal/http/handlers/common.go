package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"tiketbus/internal/domain"
	"tiketbus/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Stringish tolerates string, number or bool and keeps it as a string.
type Stringish string

func (s *Stringish) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case string(b) == "null" || len(b) == 0:
		*s = ""
		return nil
	case len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"':
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = Stringish(str)
		return nil
	default:
		*s = Stringish(strings.Trim(string(b), `"`))
		return nil
	}
}

func (s Stringish) String() string { return string(s) }

// Ptr returns the trimmed value; a nil receiver means the key was absent.
func (s *Stringish) Ptr() *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(string(*s))
	return &v
}

// Amount accepts 100000, "100000" or "Rp 100.000".
type Amount int64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" || len(b) == 0 {
		*a = 0
		return nil
	}
	if b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		v, err := utils.ParseRupiahToInt(str)
		if err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("nominal harus bilangan bulat: %s", b)
	}
	*a = Amount(int64(f))
	return nil
}

// Count accepts 2 or "2".
type Count int

func (n *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" || len(b) == 0 {
		*n = 0
		return nil
	}
	raw := strings.Trim(string(b), `"`)
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	*n = Count(v)
	return nil
}

// bindJSON decodes the body and turns binding failures into a ValidationError.
func bindJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return domain.ValidationError{Msg: "body kosong"}
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		return bindingError(err)
	}
	return nil
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]domain.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, domain.FieldError{Field: fe.Field(), Message: validationMessage(fe)})
		}
		return domain.ValidationError{Msg: "payload tidak valid", Fields: fields, Err: err}
	}
	if errors.Is(err, io.EOF) {
		return domain.ValidationError{Msg: "body kosong", Err: err}
	}
	return domain.ValidationError{Msg: "payload tidak valid: " + err.Error(), Err: err}
}

func firstPtr(vals ...*string) *string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstStringish(vals ...*Stringish) *string {
	for _, v := range vals {
		if v != nil {
			return v.Ptr()
		}
	}
	return nil
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && v
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
