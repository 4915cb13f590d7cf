package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vesting-dashboard/core/model"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/howeyc/gopass"
	"github.com/peterh/liner"
)

func readPassphrase(path string) (string, error) {
	bs, err := gopass.GetPasswdPrompt(fmt.Sprintf("passphrase for %s: ", path), true, os.Stdin, os.Stdout)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// terminalConfirm asks on the terminal before a release transaction is signed.
func terminalConfirm(ctx context.Context, tx *types.Transaction) (bool, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Printf("contract: %s\n", tx.To().Hex())
	fmt.Printf("nonce:    %d\n", tx.Nonce())
	fmt.Printf("gas:      %d\n", tx.Gas())
	fmt.Printf("max fee:  %s\n", model.FormatTokenAmount(tx.Cost(), model.DisplayDecimals))
	for {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		input, err := line.Prompt("sign and send release transaction? [y/N] ")
		if err == liner.ErrPromptAborted {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "y", "yes":
			return true, nil
		case "", "n", "no":
			return false, nil
		}
	}
}
