// Command identify loads a language model and scores stdin (or named
// files) against it, printing the top-ranked languages per input.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/golang/glog"
	"github.com/kho/easy"
	"github.com/ralfbrown/whatlang2-sub001"
)

func main() {
	var args struct {
		Model string `name:"model" usage:"language-identification model file"`
	}
	topN := flag.Int("top", 3, "number of languages to report per input")
	cutoff := flag.Float64("cutoff", 0.5, "score cutoff ratio relative to the best match")
	coverage := flag.Bool("coverage", true, "apply each language's coverage/matchFactor adjustment before ranking")
	verbose := flag.Bool("verbose", false, "trace per-language derived adjustments at load time")
	cpuprofile := flag.String("cpuprofile", "", "path to write CPU profile")
	easy.ParseFlagsAndArgs(&args)

	if *cpuprofile != "" {
		w := easy.MustCreate(*cpuprofile)
		pprof.StartCPUProfile(w)
		defer func() {
			pprof.StopCPUProfile()
			w.Close()
		}()
	}

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	id, err := langident.Load(args.Model, langident.LoadOptions{Verbose: *verbose})
	if err != nil {
		glog.Fatal("error in loading model: ", err)
	}
	defer id.Close()
	runtime.GC()
	runtime.ReadMemStats(&after)
	glog.Infof("model memory overhead: %.2fMB", float64(after.Alloc-before.Alloc)/float64(1<<20))

	ctx := langident.DefaultContext()
	files := flag.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, path := range files {
		buf, err := readInput(path)
		if err != nil {
			glog.Fatalf("reading %s: %v", path, err)
		}
		scores := id.Identify(ctx, buf, langident.IdentifyOptions{
			IgnoreWhitespace: true,
			EnforceAlignment: true,
		})
		id.Finish(scores, *topN, *cutoff, *coverage)
		fmt.Printf("%s:\n", path)
		for i := 0; i < scores.Len(); i++ {
			lang, score := scores.At(i)
			fmt.Printf("\t%s\t%g\n", id.Languages().At(lang).Language(), score)
		}
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(bufio.NewReader(os.Stdin))
	}
	f, err := easy.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
