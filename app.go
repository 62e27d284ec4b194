package main

import (
	"database/sql"
	"fmt"

	intconfig "tiketbus/internal/config"
	"tiketbus/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bootstrap loads env, builds the logger and opens the database.
func bootstrap() (intconfig.Env, *sql.DB, error) {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	if _, err := utils.InitLogger(env.LogLevel); err != nil {
		return env, nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := intconfig.ConnectDB(env.DatabaseURL)
	if err != nil {
		utils.Logger().Error("database unavailable", zap.Error(err))
		return env, nil, err
	}
	return env, db, nil
}

func shutdown() {
	intconfig.CloseDB()
	_ = utils.Logger().Sync()
}
