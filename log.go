package nameserv

import (
	"github.com/mvxns/nameserv/common"
)

var log = common.NewLog("nameserv")
