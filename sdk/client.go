package sdk

import (
	"errors"
	"fmt"

	"github.com/mvxns/nameserv/schema"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/body"
)

// Client is a thin http client over the registrar api.
type Client struct {
	Cli *gentleman.Client
}

func New(registrarUrl string) *Client {
	return &Client{
		Cli: gentleman.New().URL(registrarUrl),
	}
}

func (c *Client) RegisterOrRenew(req schema.RegisterReq) (schema.RespRegister, error) {
	resp := schema.RespRegister{}
	err := c.postJSON("/domain/register", req, &resp)
	return resp, err
}

func (c *Client) GetDomain(name string) (schema.DomainRecord, error) {
	rec := schema.DomainRecord{}
	err := c.getJSON(fmt.Sprintf("/domain/%s", name), &rec)
	return rec, err
}

func (c *Client) Resolve(name string) (schema.RespResolve, error) {
	resp := schema.RespResolve{}
	err := c.getJSON(fmt.Sprintf("/domain/%s/resolve", name), &resp)
	return resp, err
}

func (c *Client) TransferDomain(name string, req schema.TransferReq) error {
	return c.postJSON(fmt.Sprintf("/domain/%s/transfer", name), req, nil)
}

func (c *Client) UpdatePrimaryAddress(name string, req schema.AssignReq) error {
	return c.postJSON(fmt.Sprintf("/domain/%s/address", name), req, nil)
}

func (c *Client) Accept(name string, req schema.AssignReq) error {
	return c.postJSON(fmt.Sprintf("/domain/%s/accept", name), req, nil)
}

func (c *Client) UpdateKeyValue(name string, req schema.KeyValueReq) error {
	return c.postJSON(fmt.Sprintf("/domain/%s/keyvalue", name), req, nil)
}

func (c *Client) UpdateProfile(name string, req schema.ProfileReq) error {
	return c.postJSON(fmt.Sprintf("/domain/%s/profile", name), req, nil)
}

func (c *Client) RegisterSubDomain(req schema.SubDomainReq) (schema.RespSubDomain, error) {
	resp := schema.RespSubDomain{}
	err := c.postJSON("/subdomain/register", req, &resp)
	return resp, err
}

func (c *Client) GetSubDomains(primaryName string) ([]schema.SubDomain, error) {
	subs := make([]schema.SubDomain, 0)
	err := c.getJSON(fmt.Sprintf("/subdomains/%s", primaryName), &subs)
	return subs, err
}

func (c *Client) MigrateDomain(req schema.MigrateReq) (schema.RespRegister, error) {
	resp := schema.RespRegister{}
	err := c.postJSON("/migrate", req, &resp)
	return resp, err
}

func (c *Client) GetFees() (schema.RespFees, error) {
	fees := schema.RespFees{}
	err := c.getJSON("/fees", &fees)
	return fees, err
}

func (c *Client) GetRate() (schema.RespRate, error) {
	rate := schema.RespRate{}
	err := c.getJSON("/rate", &rate)
	return rate, err
}

func (c *Client) getJSON(path string, out interface{}) error {
	req := c.Cli.Get()
	req.AddPath(path)
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	return resp.JSON(out)
}

func (c *Client) postJSON(path string, payload interface{}, out interface{}) error {
	req := c.Cli.Post()
	req.AddPath(path)
	req.Use(body.JSON(payload))
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return errors.New(fmt.Sprintf("resp failed: %s", resp.String()))
	}
	if out == nil {
		return nil
	}
	return resp.JSON(out)
}
