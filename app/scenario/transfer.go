package scenario

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/go-pkgz/lgr"
	"github.com/playwright-community/playwright-go"

	"github.com/threefoldtech/gridwatch/app/generate"
	"github.com/threefoldtech/gridwatch/app/pages"
	"github.com/threefoldtech/gridwatch/app/scenario/expect"
)

// transferAmount is sent by the transfer scenarios, the balance must drop by amount plus fee within [1, 1.1]
const (
	transferAmount  = "1.01"
	transferMinCost = 1.0
	transferMaxCost = 1.1
)

var transferScenarios = []Scenario{
	{ID: "transfer-page", Case: "TC982", Name: "navigate to transfer", Group: GroupTransfer, Run: transferPage},
	{ID: "transfer-valid-address", Case: "TC984", Name: "valid recipient address", Group: GroupTransfer, Run: transferValidAddress},
	{ID: "transfer-invalid-address", Case: "TC985", Name: "invalid recipient address", Group: GroupTransfer, Run: transferInvalidAddress},
	{ID: "transfer-twin-id", Case: "TC1918", Name: "recipient twin id validation", Group: GroupTransfer, Run: transferTwinID},
	{ID: "transfer-valid-amount", Case: "TC986", Name: "valid amount", Group: GroupTransfer, Run: transferValidAmount},
	{ID: "transfer-invalid-amount", Case: "TC987", Name: "invalid amount", Group: GroupTransfer, Run: transferInvalidAmount},
	{ID: "transfer-by-address", Case: "TC988", Name: "transfer TFTs by twin address", Group: GroupTransfer, Run: transferByAddress},
	{ID: "transfer-by-twin-id", Case: "TC1917", Name: "transfer TFTs by twin id", Group: GroupTransfer, Run: transferByTwinID},
}

// transferSetup logs in with wallet account and opens transfer page
func transferSetup(ctx context.Context, env *Env) (*pages.TransferPage, error) {
	mnemonic, err := env.Settings.WalletAccount()
	if err != nil {
		return nil, err
	}
	if err := login(ctx, env, mnemonic); err != nil {
		return nil, err
	}
	tp := pages.NewTransferPage(env.Page)
	if err := tp.Navigate(); err != nil {
		return nil, err
	}
	return tp, nil
}

func transferPage(ctx context.Context, env *Env) error {
	tp, err := transferSetup(ctx, env)
	if err != nil {
		return err
	}
	ok, err := tp.Contains("Transfer TFTs on the TFChain")
	if err != nil {
		return err
	}
	return expect.True(ok, "transfer page title not found")
}

// fillByAddress selects "by address" tab and types a valid amount and the configured recipient
func fillByAddress(env *Env, tp *pages.TransferPage, amount string) error {
	if err := tp.ByTwinAddress(); err != nil {
		return err
	}
	if err := tp.AmountTFTInput(amount); err != nil {
		return err
	}
	return tp.RecipientInput(env.Settings.Accounts.Recipient)
}

func transferValidAddress(ctx context.Context, env *Env) error {
	tp, err := transferSetup(ctx, env)
	if err != nil {
		return err
	}
	if err := fillByAddress(env, tp, generate.ValidAmount()); err != nil {
		return err
	}
	_, err = tp.WaitForButton(ctx, tp.AddressSubmit())
	return err
}

// rejected types value with input and expects msg shown and submit disabled
func rejected(tp *pages.TransferPage, input func(string) error, submit playwright.Locator, value, msg string) error {
	if err := input(value); err != nil {
		return err
	}
	if err := tp.WaitFor(msg); err != nil {
		return fmt.Errorf("input %q: %w", value, err)
	}
	return expect.Disabled(submit, fmt.Sprintf("submit for %q", value))
}

func transferInvalidAddress(ctx context.Context, env *Env) error {
	tp, err := transferSetup(ctx, env)
	if err != nil {
		return err
	}
	if err := tp.ByTwinAddress(); err != nil {
		return err
	}
	if err := tp.AmountTFTInput(generate.ValidAmount()); err != nil {
		return err
	}
	submit := tp.AddressSubmit()
	if err := rejected(tp, tp.RecipientInput, submit, tp.TwinAddress(), "Cannot transfer to yourself"); err != nil {
		return err
	}
	for _, c := range []string{" ", generate.String(), generate.InvalidAddress(), generate.Letters()} {
		if err := rejected(tp, tp.RecipientInput, submit, c, "Invalid Address"); err != nil {
			return err
		}
	}
	return nil
}

func transferTwinID(ctx context.Context, env *Env) error {
	tp, err := transferSetup(ctx, env)
	if err != nil {
		return err
	}
	if err := tp.ByTwinID(); err != nil {
		return err
	}
	if err := tp.AmountTFTIDInput(generate.ValidAmount()); err != nil {
		return err
	}
	submit := tp.IDSubmit()
	if err := rejected(tp, tp.RecipientIDInput, submit, tp.TwinID(), "Cannot transfer to yourself"); err != nil {
		return err
	}
	if err := rejected(tp, tp.RecipientIDInput, submit, "999999999", "This twin id doesn"); err != nil {
		return err
	}
	for _, c := range []string{" ", generate.String(), generate.InvalidAddress(), generate.Letters()} {
		if err := rejected(tp, tp.RecipientIDInput, submit, c, "Twin ID should be a valid integer"); err != nil {
			return err
		}
	}
	for _, c := range []string{"0", "-52"} {
		if err := rejected(tp, tp.RecipientIDInput, submit, c, "Twin ID should be greater than zero"); err != nil {
			return err
		}
	}
	return nil
}

func transferValidAmount(ctx context.Context, env *Env) error {
	tp, err := transferSetup(ctx, env)
	if err != nil {
		return err
	}
	if err := fillByAddress(env, tp, generate.ValidAmount()); err != nil {
		return err
	}
	_, err = tp.WaitForButton(ctx, tp.AddressSubmit())
	return err
}

func transferInvalidAmount(ctx context.Context, env *Env) error {
	tp, err := transferSetup(ctx, env)
	if err != nil {
		return err
	}
	if err := fillByAddress(env, tp, "2"); err != nil {
		return err
	}
	balance, err := tp.Balance()
	if err != nil {
		return err
	}

	submit := tp.AddressSubmit()
	cases := []struct{ amount, msg string }{
		{"-900.009", "Amount must be greater than 0"},
		{generate.InvalidAmountNegative(), "Amount must be greater than 0"},
		{"0", "Transfer amount is required"},
		{" ", "Transfer amount is required"},
		{generate.InvalidAmount(), "Amount can have 3 decimals only."},
		{fmt.Sprintf("%.3f", balance+100), "Insufficient funds"},
	}
	for _, c := range cases {
		if err := rejected(tp, tp.AmountTFTInput, submit, c.amount, c.msg); err != nil {
			return err
		}
	}
	return nil
}

func transferByAddress(ctx context.Context, env *Env) error {
	tp, err := transferSetup(ctx, env)
	if err != nil {
		return err
	}
	if err := tp.ByTwinAddress(); err != nil {
		return err
	}
	balance, err := tp.Balance()
	if err != nil {
		return err
	}
	if err := fillByAddress(env, tp, transferAmount); err != nil {
		return err
	}
	return submitTransfer(ctx, tp, tp.AddressSubmit(), balance)
}

func transferByTwinID(ctx context.Context, env *Env) error {
	tp, err := transferSetup(ctx, env)
	if err != nil {
		return err
	}
	if err := tp.ByTwinID(); err != nil {
		return err
	}
	balance, err := tp.Balance()
	if err != nil {
		return err
	}
	if err := tp.RecipientIDInput(strconv.Itoa(env.Settings.Accounts.RecipientTwinID)); err != nil {
		return err
	}
	if err := tp.AmountTFTIDInput(transferAmount); err != nil {
		return err
	}
	return submitTransfer(ctx, tp, tp.IDSubmit(), balance)
}

// submitTransfer clicks submit, waits for completion and checks balance went down by amount plus fee
func submitTransfer(ctx context.Context, tp *pages.TransferPage, submit playwright.Locator, balance float64) error {
	btn, err := tp.WaitForButton(ctx, submit)
	if err != nil {
		return err
	}
	if err := btn.Click(); err != nil {
		return fmt.Errorf("can't submit transfer: %w", err)
	}
	if err := tp.WaitFor("Transaction Complete!"); err != nil {
		return err
	}
	after, err := tp.BalanceAfterTransfer(ctx, balance)
	if err != nil {
		return err
	}
	log.Printf("[INFO] balance %.3f -> %.3f", balance, after)
	return checkBalanceAfter(balance, after)
}

// checkBalanceAfter verifies new balance is within [old-1.1, old-1] at 3 decimals
func checkBalanceAfter(old, after float64) error {
	lo, hi := pages.Round3(old-transferMaxCost), pages.Round3(old-transferMinCost)
	return expect.Between(pages.Round3(after), lo, hi, "balance after transfer")
}
