package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/luckywalk/backend/pkg/authenticator"
	"github.com/luckywalk/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startAppleSecret(cctx *cli.Context) error {
	cfg := xcontext.Configs(s.ctx).Apple
	if cfg.PrivateKeyPath == "" {
		return errors.New("apple private key path must be configured")
	}

	privateKey, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return err
	}

	secret, err := authenticator.AppleClientSecret(authenticator.AppleClientSecretParams{
		TeamID:     cfg.TeamID,
		KeyID:      cfg.KeyID,
		ClientID:   cfg.ClientID,
		PrivateKey: privateKey,
		Expiration: cctx.Duration("expiration"),
	}, time.Now())
	if err != nil {
		return err
	}

	fmt.Println(secret)
	return nil
}
