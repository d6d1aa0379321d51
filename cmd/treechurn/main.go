// Command treechurn drives a compacting object pool with a binary-tree
// workload: build a tree of pool-backed nodes, repeatedly graft and
// prune random subtrees, then tear the whole thing down. It is a
// reduced-depth, tractable stand-in for a churn harness meant to run
// for hours against millions of nodes.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"unsafe"

	"go.uber.org/zap"

	"github.com/schets/compacting-object-pool/pool"
)

// node is the pool object: two pointers, 16 bytes, 8-byte aligned,
// matching the size/align pair the pool is configured for below.
type node struct {
	left, right unsafe.Pointer
}

func nodeAt(p unsafe.Pointer) *node { return (*node)(p) }

var numLive int32

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[treechurn] error: %s\n", err.Error())
	os.Exit(1)
}

func buildTree(p *pool.Pool, depth, maxDepth int) unsafe.Pointer {
	if depth >= maxDepth {
		return nil
	}
	numLive++
	slot, err := p.Alloc()
	if err != nil {
		exit(err)
	}
	n := nodeAt(slot)
	n.right = buildTree(p, depth+1, maxDepth)
	n.left = buildTree(p, depth+1, maxDepth)
	return slot
}

func freeTree(p *pool.Pool, root *unsafe.Pointer) {
	if *root == nil {
		return
	}
	numLive--
	n := nodeAt(*root)
	right, left := n.right, n.left
	freeTree(p, &right)
	freeTree(p, &left)
	p.Free(*root)
	*root = nil
}

// iterDown walks one bit of value per level, descending into the left
// or right child depending on the low bit, until depth reaches
// deleteAt (where it prunes that subtree) or it runs out of tree.
func iterDown(p *pool.Pool, root *unsafe.Pointer, value int32, deleteAt, depth int, addIt bool) {
	whichOne := value & 1
	if *root == nil {
		if addIt {
			*root = buildTree(p, 0, 4)
		}
		return
	}

	n := nodeAt(*root)
	whichDir := &n.right
	if whichOne != 0 {
		whichDir = &n.left
	}
	if depth == deleteAt {
		freeTree(p, whichDir)
		return
	}
	iterDown(p, whichDir, value>>1, deleteAt, depth+1, addIt)
}

// modifyTree runs rounds of randomized grafts and prunes, pulling the
// live node count back toward target by biasing how deep each prune
// cuts: the farther above target, the shallower (and therefore bigger)
// the pruned subtree.
func modifyTree(p *pool.Pool, root *unsafe.Pointer, target int32, rounds, perRound int, rng *rand.Rand) {
	randn := make([]int32, 2049)

	for n := 0; n < rounds; n++ {
		for i := range randn {
			randn[i] = rng.Int31()
		}

		for q := 0; q < perRound; q++ {
			for i := 0; i < len(randn)-1; i++ {
				diff := numLive - target
				if diff > 0 {
					capped := target / 10
					if diff > capped {
						diff = capped
					}
					if capped > 0 {
						diff = 32 - (diff / (capped / 32))
					}
				}
				if diff > 16 {
					diff = ((randn[i+1] >> 8) & 3) + 8
				}
				addIt := randn[i]&1 != 0 || diff < 0
				iterDown(p, root, randn[i], int(diff), 0, addIt)
			}
		}
	}
}

func main() {
	maxDepth := flag.Int("maxdepth", 12, "depth of the initial tree")
	target := flag.Int("target", 4000, "steady-state live node count modifyTree churns toward")
	rounds := flag.Int("rounds", 4, "outer rounds of randomized churn")
	perRound := flag.Int("per-round", 50, "inner iterations per round")
	seed := flag.Int64("seed", 100, "PRNG seed, for reproducible runs")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		exit(err)
	}
	defer logger.Sync()

	p, err := pool.New(pool.Config{Size: 16, Align: 8, Logger: logger})
	if err != nil {
		exit(err)
	}
	defer p.Close()

	rng := rand.New(rand.NewSource(*seed))

	root := buildTree(p, 0, *maxDepth)
	modifyTree(p, &root, int32(*target), *rounds, *perRound, rng)
	freeTree(p, &root)

	if err := p.Clean(); err != nil {
		exit(err)
	}

	stats := p.Stats()
	logger.Info("treechurn finished",
		zap.Int32("liveNodesRemaining", numLive),
		zap.Int("emptySlabs", stats.EmptySlabs),
		zap.Int("partialSlabs", stats.PartialSlabs),
		zap.Int("fullSlabs", stats.FullSlabs),
		zap.Uint32("allocStreak", stats.AllocStreak),
		zap.Uint32("evictStreak", stats.EvictStreak),
		zap.Uint32("loadStreak", stats.LoadStreak),
	)

	if numLive != 0 {
		logger.Error("treechurn: alloc/free counts disagree after teardown",
			zap.Int32("liveNodesRemaining", numLive),
		)
		os.Exit(1)
	}
}
