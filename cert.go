package nameserv

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/body"
)

// CertClient manages the ownership certificates backing registered names.
// Each registered name is bound to exactly one certificate; the certificate
// holder is the authoritative owner.
type CertClient interface {
	Mint(name, owner string, royalties uint64) (nonce uint64, err error)
	Burn(nonce uint64) error
	Transfer(nonce uint64, newOwner string) error
	HolderOf(nonce uint64) (string, error)
}

type HttpCert struct {
	cli *gentleman.Client
}

func NewHttpCert(certUrl string) *HttpCert {
	return &HttpCert{
		cli: gentleman.New().URL(certUrl),
	}
}

func (c *HttpCert) Mint(name, owner string, royalties uint64) (uint64, error) {
	req := c.cli.Post()
	req.AddPath("/cert/mint")
	req.Use(body.JSON(map[string]interface{}{
		"name":      name,
		"owner":     owner,
		"royalties": royalties,
	}))
	resp, err := req.Send()
	if err != nil {
		return 0, err
	}
	defer resp.Close()
	if !resp.Ok {
		return 0, errors.New(fmt.Sprintf("cert mint resp failed: %s", resp.String()))
	}
	nonce := gjson.GetBytes(resp.Bytes(), "nonce")
	if !nonce.Exists() {
		return 0, errors.New("cert mint resp missing nonce")
	}
	return nonce.Uint(), nil
}

func (c *HttpCert) Burn(nonce uint64) error {
	req := c.cli.Post()
	req.AddPath(fmt.Sprintf("/cert/burn/%d", nonce))
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return errors.New(fmt.Sprintf("cert burn resp failed: %s", resp.String()))
	}
	return nil
}

func (c *HttpCert) Transfer(nonce uint64, newOwner string) error {
	req := c.cli.Post()
	req.AddPath(fmt.Sprintf("/cert/transfer/%d", nonce))
	req.Use(body.JSON(map[string]string{"newOwner": newOwner}))
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return errors.New(fmt.Sprintf("cert transfer resp failed: %s", resp.String()))
	}
	return nil
}

func (c *HttpCert) HolderOf(nonce uint64) (string, error) {
	req := c.cli.Get()
	req.AddPath(fmt.Sprintf("/cert/holder/%d", nonce))
	resp, err := req.Send()
	if err != nil {
		return "", err
	}
	defer resp.Close()
	if !resp.Ok {
		return "", errors.New(fmt.Sprintf("cert holder resp failed: %s", resp.String()))
	}
	return gjson.GetBytes(resp.Bytes(), "holder").String(), nil
}
