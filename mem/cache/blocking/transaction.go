package blocking

import "github.com/sarchlab/blockingcache/mem/mem"

// A transaction is the request that the cache is waiting memory for.
type transaction struct {
	req         *mem.ReqMsg
	reqToBottom *mem.ReqMsg
}
