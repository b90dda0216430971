package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/CodeMonkeyCybersecurity/whatbump/cmd"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/whatbump/pkg/telemetry"
)

func main() {
	logger.InitializeWithFallback()

	if err := telemetry.Init("whatbump"); err != nil {
		fmt.Fprintln(os.Stderr, "⚠️  Telemetry disabled:", err)
	}

	code := cmd.Execute()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = telemetry.Shutdown(ctx)
	cancel()

	os.Exit(code)
}
