package blob

import (
	"context"
	"fmt"

	"biochemreg/internal/config"
)

// Open selects the report sink described by cfg. Defaults to the filesystem
// driver rooted at cfg.Dir.
//
//	BIOCHEMREG_REPORTS_DRIVER: fs|s3|memory (default fs)
//	BIOCHEMREG_REPORTS_DIR: directory root when driver=fs (default .)
//	BIOCHEMREG_REPORTS_BUCKET / _REGION / _ENDPOINT / _PREFIX / _USE_PATH_STYLE: s3 settings
func Open(ctx context.Context, cfg config.ReportsConfig) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(cfg.Dir)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			Prefix:    cfg.Prefix,
			PathStyle: cfg.UsePathStyle,
		})
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown report driver %s", driver)
	}
}
