package state

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"cssfix/config"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
	if EnvFromContext(ctx) != env {
		t.Error("Expected the same environment on repeated lookups")
	}
}

func TestEnvFromContext_PanicsOnMissingEnv(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic when env not in context")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
	if uptime > time.Second {
		t.Errorf("Uptime() = %v, unexpectedly large", uptime)
	}
}

func TestLocalEnv_Logger(t *testing.T) {
	env := &LocalEnv{}
	if env.Logger() == nil {
		t.Fatal("Logger() returned nil without configured log")
	}
	// must not panic
	env.Logger().Info("discarded")

	log := zaptest.NewLogger(t)
	env.Log = log
	if env.Logger() != log {
		t.Error("Logger() did not return configured log")
	}
}

func TestLocalEnv_RedirectAndRestore(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}
		for i := range 3 {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Errorf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
			if env.restoreStdLog != nil {
				t.Errorf("Iteration %d: restoreStdLog not cleared", i)
			}
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}
		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}

func TestLocalEnv_Fields(t *testing.T) {
	cfg := &config.Config{Version: 1}
	rpt := &config.Report{}
	log := zaptest.NewLogger(t)

	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Cfg, env.Rpt, env.Log = cfg, rpt, log

	again := EnvFromContext(context.WithValue(ContextWithEnv(context.Background()), envKey{}, env))
	if again.Cfg != cfg || again.Rpt != rpt || again.Log != log {
		t.Error("Environment fields not preserved through context")
	}
}
