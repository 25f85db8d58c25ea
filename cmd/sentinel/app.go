package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"SalarySentinel/internal/config"
	"SalarySentinel/internal/engine"
	"SalarySentinel/internal/feature"
	"SalarySentinel/internal/logging"
	"SalarySentinel/internal/predictor"
	"SalarySentinel/internal/residuals"
)

// app holds what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	engine *engine.Engine
}

func bootstrap(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(resolveConfigPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, err
	}

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, engine: eng}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func buildEngine(cfg *config.Config, logger *zap.Logger) (*engine.Engine, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	transform := cfg.Transform()

	var (
		m         predictor.Model
		modelName string
	)
	if cfg.Model.RemoteURL != "" {
		m = predictor.NewHTTPModel(cfg.Model.RemoteURL, cfg.Proxy)
		modelName = "remote:" + cfg.Model.RemoteURL
	} else {
		artifact, err := predictor.LoadArtifact(cfg.Model.ArtifactPath)
		if err != nil {
			return nil, err
		}
		if err := artifact.Check(transform, feature.NewEncoder(catalog).Names()); err != nil {
			return nil, fmt.Errorf("artifact %s: %w", cfg.Model.ArtifactPath, err)
		}
		if m, err = artifact.Model(); err != nil {
			return nil, err
		}
		modelName = artifact.Name()
		if artifact.ResidualStd > 0 && artifact.ResidualStd != cfg.Threshold.ResidualStd {
			logger.Warn("artifact residual std differs from config, using config",
				zap.Float64("artifact", artifact.ResidualStd),
				zap.Float64("config", cfg.Threshold.ResidualStd))
		}
	}

	src, err := residualSource(cfg)
	if err != nil {
		return nil, err
	}
	var sample []float64
	if src != nil {
		if sample, err = src.Load(); err != nil {
			return nil, fmt.Errorf("load residuals from %s: %w", src.Name(), err)
		}
		sum := residuals.Summarize(sample)
		logger.Info("residual sample loaded",
			zap.String("source", src.Name()),
			zap.Int("count", sum.Count),
			zap.Float64("mean", sum.Mean),
			zap.Float64("std_dev", sum.StdDev),
			zap.Float64("max", sum.Max))
	}

	eng, err := engine.New(engine.Options{
		Catalog:   catalog,
		Model:     m,
		ModelName: modelName,
		Transform: transform,
		Policy:    cfg.Threshold,
		Residuals: sample,
	})
	if err != nil {
		return nil, err
	}
	info := eng.Describe()
	logger.Info("engine ready",
		zap.String("model", info.Model),
		zap.String("transform", info.Transform),
		zap.String("policy", info.Policy),
		zap.Float64("threshold", info.Threshold))
	return eng, nil
}

func residualSource(cfg *config.Config) (residuals.Source, error) {
	switch {
	case cfg.Residuals.SQLitePath != "":
		return residuals.NewSQLiteSource(cfg.Residuals.SQLitePath, cfg.Residuals.Table, cfg.Residuals.Column)
	case cfg.Residuals.FilePath != "":
		return residuals.NewFileSource(cfg.Residuals.FilePath), nil
	default:
		return nil, nil
	}
}
