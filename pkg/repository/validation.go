package repository

import (
	"errors"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// BaseURL validates an endpoint URL that other paths are appended to: it
// must be absolute http(s) and end with "/".
var BaseURL = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https scheme")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	if !strings.HasSuffix(s, "/") {
		return errors.New("must end with /")
	}
	return nil
})
