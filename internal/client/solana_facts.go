package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type solanaFactsCaller struct {
	client *rpc.Client
}

func NewSolanaFactsCaller(client *rpc.Client) *solanaFactsCaller {
	return &solanaFactsCaller{client: client}
}

// GetTokenBalance returns the decimal adjusted balance of mint summed over
// every token account of wallet.
func (c *solanaFactsCaller) GetTokenBalance(ctx context.Context, wallet, mint string) (float64, error) {
	balances, err := c.getBalances(ctx, wallet, mint)
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, balance := range balances {
		if balance.UiAmountString != "" {
			amount, err := strconv.ParseFloat(balance.UiAmountString, 64)
			if err != nil {
				return 0, err
			}
			total += amount
		} else if balance.UiAmount != nil {
			total += *balance.UiAmount
		}
	}

	return total, nil
}

// GetNFTOwnershipCount counts the zero decimal tokens of collectionMint owned
// by wallet.
func (c *solanaFactsCaller) GetNFTOwnershipCount(ctx context.Context, wallet, collectionMint string) (int, error) {
	balances, err := c.getBalances(ctx, wallet, collectionMint)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, balance := range balances {
		if balance.Decimals != 0 {
			continue
		}

		amount, err := strconv.ParseUint(balance.Amount, 10, 64)
		if err != nil {
			return 0, err
		}
		count += int(amount)
	}

	return count, nil
}

func (c *solanaFactsCaller) getBalances(ctx context.Context, wallet, mint string) ([]*rpc.UiTokenAmount, error) {
	owner, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet: %w", err)
	}

	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return nil, fmt.Errorf("invalid mint: %w", err)
	}

	accounts, err := c.client.GetTokenAccountsByOwner(
		ctx,
		owner,
		&rpc.GetTokenAccountsConfig{Mint: &mintKey},
		&rpc.GetTokenAccountsOpts{Encoding: solana.EncodingBase64},
	)
	if err != nil {
		return nil, err
	}

	balances := []*rpc.UiTokenAmount{}
	for _, account := range accounts.Value {
		balance, err := c.client.GetTokenAccountBalance(ctx, account.Pubkey, rpc.CommitmentConfirmed)
		if err != nil {
			return nil, err
		}

		if balance.Value != nil {
			balances = append(balances, balance.Value)
		}
	}

	return balances, nil
}
