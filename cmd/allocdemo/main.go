// Command allocdemo switches the process allocator between backends and
// prints the resulting counters.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/pavanmanishd/allocctx"
	"github.com/pavanmanishd/allocctx/debughttp"
)

var listen = flag.String("listen", "", "serve /debug/alloc and /metrics on this address after the demo")
var accountFree = flag.Bool("account-free", false, "subtract freed System bytes from system_allocated")
var asJSON = flag.Bool("json", false, "print the snapshot as JSON")

func main() {
	log.SetFlags(log.Lmicroseconds | log.Lshortfile)
	flag.Parse()

	allocctx.SetAccountSystemFree(*accountFree)
	run(os.Stdout)

	if err := report(os.Stdout, allocctx.Info()); err != nil {
		log.Fatal(err)
	}

	if *listen == "" {
		return
	}
	h, err := debughttp.NewHandler(&allocctx.Default, log.Default())
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("serving diagnostics on %s", *listen)
	if err := debughttp.ListenAndServe(*listen, h); err != nil {
		log.Fatal(err)
	}
}

func run(w *os.File) {
	m := &allocctx.Default

	g := allocctx.Enter(allocctx.Arena)
	defer g.Release()

	s := allocctx.AllocString(m, "Allocate and print a String in 'Arena'")
	fmt.Fprintf(w, "%s.\n", s)

	allocctx.With(allocctx.Pool, func() {
		v := allocctx.MakeSlice[int](m, 4)
		copy(v, []int{123, 345, 567, 789})
		s := allocctx.AllocString(m, fmt.Sprintf("Allocate a String and Vec and debug print it in 'Pool': %v", v))
		fmt.Fprintf(w, "%s.\n", s)
	})
}

func report(w *os.File, info allocctx.AllocationInfo) error {
	if !*asJSON {
		_, err := fmt.Fprintln(w, info)
		return err
	}
	stream := jsoniter.NewStream(jsoniter.ConfigCompatibleWithStandardLibrary, w, 256)
	stream.WriteVal(info)
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}
