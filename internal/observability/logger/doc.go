// Package logger expone un logger Zap único para todo el proceso, con
// loggers "scoped" por request que viajan en el context.
//
// Inicialización (una vez, en cmd/chasqui):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
// En services/controllers:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Login"))
//	log.Info("login ok", logger.UserID(id))
//
// Nunca loguear passwords, hashes ni tokens completos.
package logger
