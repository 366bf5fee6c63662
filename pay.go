package nameserv

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/body"
)

// PayClient moves funds back out of the registry account. Refund and
// excess settlement both go through it.
type PayClient interface {
	Transfer(token string, amount *big.Int, to string, memo string) (txHash string, err error)
}

type HttpPay struct {
	cli *gentleman.Client
}

func NewHttpPay(payUrl string) *HttpPay {
	return &HttpPay{
		cli: gentleman.New().URL(payUrl),
	}
}

func (p *HttpPay) Transfer(token string, amount *big.Int, to string, memo string) (string, error) {
	req := p.cli.Post()
	req.AddPath("/transfer")
	req.Use(body.JSON(map[string]string{
		"token":  token,
		"amount": amount.String(),
		"to":     to,
		"memo":   memo,
	}))
	resp, err := req.Send()
	if err != nil {
		return "", err
	}
	defer resp.Close()
	if !resp.Ok {
		return "", errors.New(fmt.Sprintf("pay resp failed: %s", resp.String()))
	}
	return gjson.GetBytes(resp.Bytes(), "txHash").String(), nil
}
