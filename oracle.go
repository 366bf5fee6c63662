package nameserv

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
)

// Oracle supplies the native/usd exchange rate. The round trip is the only
// blocking external dependency of the pricing path, so it sits behind an
// interface and tests stub it out.
type Oracle interface {
	LatestPriceFeed(from, to string) (*big.Int, error)
}

type HttpOracle struct {
	cli *gentleman.Client
}

func NewHttpOracle(oracleUrl string) *HttpOracle {
	return &HttpOracle{
		cli: gentleman.New().URL(oracleUrl),
	}
}

// LatestPriceFeed fetches the price of one unit of `from` denominated in
// `to` cents, as an integer count of native base units per cent.
func (o *HttpOracle) LatestPriceFeed(from, to string) (*big.Int, error) {
	req := o.cli.Get()
	req.AddPath(fmt.Sprintf("/latest-price-feed/%s/%s", strings.ToLower(from), strings.ToLower(to)))
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, errors.New(fmt.Sprintf("oracle resp failed: %s", resp.String()))
	}
	priceStr := gjson.GetBytes(resp.Bytes(), "price").String()
	price, ok := new(big.Int).SetString(priceStr, 10)
	if !ok || price.Sign() <= 0 {
		return nil, errors.New(fmt.Sprintf("oracle bad price: %s", priceStr))
	}
	return price, nil
}
