// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Settings are the resolved run parameters shared by gen and stats. They
// come from flags, which in turn fall back to env vars and the config file.
type Settings struct {
	Handle    string        `validate:"required,max=24"`
	Cutoff    int           `validate:"gte=0"`
	OutDir    string        `validate:"required"`
	CacheTTL  time.Duration `validate:"gt=0"`
	MaxPages  int           `validate:"gt=0"`
	BaseURL   string        `validate:"required,url"`
	Store     string        `validate:"oneof=file memory s3 redis"`
	Bucket    string        `validate:"required_if=Store s3"`
	Prefix    string
	RedisAddr string `validate:"required_if=Store redis"`
	Rate      time.Duration `validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the settings and flattens validator output into a single
// readable error.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(msgs, ", "))
}
