package cli

import (
	"context"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/Kesomannen/gale/internal/state"
	"github.com/Kesomannen/gale/pkg/logger"
)

const (
	// authPollInterval is how often we re-check the signed-in user while
	// waiting for the device link to be approved.
	authPollInterval = 2 * time.Second
	// authPollTimeout bounds how long we wait for approval.
	authPollTimeout = 5 * time.Minute
)

// AuthCommand runs the sync service login flow. When the backend reports a
// verification URL (device-code flow) it is rendered as a terminal QR code
// and we poll until the user approves the device in their browser.
func AuthCommand(ctx context.Context, app *state.App) error {
	logger.Infof("Starting sync service login...")

	login, err := app.Auth.Login(ctx)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if login.VerificationURL == "" {
		logger.Infof("✓ Signed in as %s", login.User.DisplayName)
		return nil
	}

	logger.Infof("\nScan this QR code to link this device:")
	printQRCode(login.VerificationURL)
	logger.Infof("\nOr open this URL in your browser:\n%s", login.VerificationURL)
	logger.Infof("\nWaiting for approval...")

	deadline := time.Now().Add(authPollTimeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(authPollInterval):
		}

		if err := app.Auth.Refresh(ctx); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		if user := app.Auth.User(); user != nil {
			logger.Infof("✓ Signed in as %s", user.DisplayName)
			return nil
		}
	}
	return fmt.Errorf("timed out waiting for device approval")
}

// LogoutCommand signs out of the sync service.
func LogoutCommand(ctx context.Context, app *state.App) error {
	if err := app.Auth.Logout(ctx); err != nil {
		return err
	}
	logger.Infof("Signed out.")
	return nil
}

// printQRCode prints a QR code to the terminal.
func printQRCode(data string) {
	qr, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		logger.Warnf("failed to generate QR code: %v", err)
		return
	}
	fmt.Print(qr.ToSmallString(false))
}
