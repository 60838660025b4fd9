package config

import (
	"github.com/pkg/errors"

	"github.com/jbvmio/bytestream/pipeline"
	"github.com/jbvmio/bytestream/stages"
)

// BuildStage resolves a StageConfig block into a concrete pipeline.Stage.
func BuildStage(cfg StageConfig) (pipeline.Stage, error) {
	switch cfg.Type {
	case "upper":
		return stages.Upper(), nil
	case "lower":
		return stages.Lower(), nil
	case "replace":
		old, repl, err := replaceBytes(cfg.Details)
		if err != nil {
			return nil, err
		}
		return stages.ReplaceByte(old, repl), nil
	case "gzip":
		return stages.Gzip(), nil
	case "gunzip":
		return stages.Gunzip(), nil
	case "zstd":
		return stages.Zstd(), nil
	case "unzstd":
		return stages.Unzstd(), nil
	case "jsonfield":
		path, ok := cfg.Details["path"].(string)
		if !ok || path == "" {
			return nil, errors.New("jsonfield stage requires a details.path string")
		}
		return stages.JSONField(path), nil
	default:
		return nil, errors.Errorf("unknown stage type: %s", cfg.Type)
	}
}

func replaceBytes(details map[string]interface{}) (old, repl byte, err error) {
	oldStr, ok := details["old"].(string)
	if !ok || len(oldStr) != 1 {
		return 0, 0, errors.New("replace stage requires a single-character details.old")
	}
	replStr, ok := details["replacement"].(string)
	if !ok || len(replStr) != 1 {
		return 0, 0, errors.New("replace stage requires a single-character details.replacement")
	}
	return oldStr[0], replStr[0], nil
}
