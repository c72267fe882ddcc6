package srcsink

import (
	"math/rand"

	"github.com/sarchlab/blockingcache/mem/mem"
)

// BaseAddr is where every scenario starts placing its words.
const BaseAddr uint32 = 0x1000

// A Pair is a request and the response that the requester expects for it.
type Pair struct {
	Req *mem.ReqMsg
	Rsp *mem.RespMsg
}

// Req creates a request that is not yet routed. The Source fills the routing
// fields when sending.
func Req(t mem.MsgType, opaque uint8, addr uint32, l uint8, data uint32) *mem.ReqMsg {
	return mem.ReqMsgBuilder{}.
		WithType(t).
		WithOpaque(opaque).
		WithAddress(addr).
		WithLen(l).
		WithData(data).
		Build()
}

// Resp creates an expected response.
func Resp(t mem.MsgType, opaque uint8, l uint8, data uint32) *mem.RespMsg {
	return mem.RespMsgBuilder{}.
		WithType(t).
		WithOpaque(opaque).
		WithLen(l).
		WithData(data).
		Build()
}

// Reqs returns the requests of the pairs, in order.
func Reqs(pairs []Pair) []*mem.ReqMsg {
	reqs := make([]*mem.ReqMsg, len(pairs))
	for i, p := range pairs {
		reqs[i] = p.Req
	}

	return reqs
}

// Rsps returns the expected responses of the pairs, in order.
func Rsps(pairs []Pair) []*mem.RespMsg {
	rsps := make([]*mem.RespMsg, len(pairs))
	for i, p := range pairs {
		rsps[i] = p.Rsp
	}

	return rsps
}

func write(opaque uint8, addr, data uint32) Pair {
	return Pair{
		Req: Req(mem.TypeWrite, opaque, addr, 0, data),
		Rsp: Resp(mem.TypeWrite, opaque, 0, 0),
	}
}

func read(opaque uint8, addr, data uint32) Pair {
	return Pair{
		Req: Req(mem.TypeRead, opaque, addr, 0, 0),
		Rsp: Resp(mem.TypeRead, opaque, 0, data),
	}
}

// BasicMsgs writes a word and reads it back.
func BasicMsgs(base uint32) []Pair {
	return []Pair{
		write(0, base, 0xdeadbeef),
		read(1, base, 0xdeadbeef),
	}
}

// BasicHitMsgs writes a word twice and reads it five times. All reads but the
// first hit in the cache.
func BasicHitMsgs(base uint32) []Pair {
	return []Pair{
		write(0, base, 0xdeadbeef),
		read(1, base, 0xdeadbeef),
		write(2, base, 0xdeadbeef),
		read(3, base, 0xdeadbeef),
		read(4, base, 0xdeadbeef),
		read(5, base, 0xdeadbeef),
		read(6, base, 0xdeadbeef),
	}
}

// AliasMsgs alternates between two words that map to the same cache line
// under different tags. Every read misses because the other word evicted the
// line in between.
func AliasMsgs(base uint32) []Pair {
	other := base + 0x20

	return []Pair{
		write(0, base, 0x11111111),
		read(1, base, 0x11111111),
		read(2, other, 0),
		read(3, base, 0x11111111),
		write(4, other, 0x22222222),
		read(5, other, 0x22222222),
	}
}

// StreamMsgs writes and reads back 20 consecutive words.
func StreamMsgs(base uint32) []Pair {
	pairs := make([]Pair, 0, 40)

	for i := uint32(0); i < 20; i++ {
		pairs = append(pairs,
			write(uint8(i), base+4*i, i),
			read(uint8(i), base+4*i, i),
		)
	}

	return pairs
}

// RandomSeed is the seed used by the random scenarios of the test table.
const RandomSeed int64 = 0xa4e28cc2

// RandomMsgs fills 20 words with random data and then runs 20 random reads
// and writes over them. Reads expect the latest value written.
func RandomMsgs(base uint32, seed int64) []Pair {
	rng := rand.New(rand.NewSource(seed))

	shadow := make([]uint32, 20)
	for i := range shadow {
		shadow[i] = rng.Uint32()
	}

	pairs := make([]Pair, 0, 40)

	for i := range shadow {
		pairs = append(pairs, write(uint8(i), base+4*uint32(i), shadow[i]))
	}

	for i := 0; i < 20; i++ {
		idx := rng.Intn(20)
		addr := base + 4*uint32(idx)

		if rng.Intn(2) == 1 {
			pairs = append(pairs, read(uint8(i), addr, shadow[idx]))
			continue
		}

		shadow[idx] = rng.Uint32()
		pairs = append(pairs, write(uint8(i), addr, shadow[idx]))
	}

	return pairs
}
