package main

import (
	"encoding/json"
	"os"

	"github.com/luckywalk/backend/internal/model"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSweep(*cli.Context) error {
	s.bootstrap()

	resp, err := s.abuseDomain.Sweep(s.ctx, &model.AbuseSweepRequest{})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func (s *srv) startReset(*cli.Context) error {
	s.bootstrap()

	resp, err := s.dailyResetDomain.Reset(s.ctx, &model.DailyResetRequest{})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func (s *srv) startNotify(*cli.Context) error {
	s.bootstrap()

	resp, err := s.notifyDomain.NotifyWinners(s.ctx, &model.NotifyWinnersRequest{})
	if err != nil {
		return err
	}

	return printJSON(resp)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
