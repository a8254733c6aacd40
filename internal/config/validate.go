package config

import "errors"

func ValidateForRun(cfg *Config) error {
	var errs []error

	if cfg.ModelDir == "" {
		errs = append(errs, ErrModelDirMissing)
	}
	if err := cfg.Prediction.Validate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Cache.Enabled {
		if err := cfg.Redis.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
