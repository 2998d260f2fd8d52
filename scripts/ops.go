// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// 開發用任務入口：go run ./scripts [task] [args...]
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

const (
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

type task struct {
	help string
	run  func(args []string) error
}

var tasks = map[string]task{
	"test":        {"go test ./... (只印 ok/FAIL)", func([]string) error { return goTest(false) }},
	"test-detail": {"go test ./... -v", func([]string) error { return goTest(true) }},
	"sim":         {"cmd/run 模擬，額外參數原樣轉交", func(a []string) error { return goRun("./cmd/run", a) }},
	"sim-all":     {"兩個示範盤面各跑一輪模擬", simAll},
	"svr":         {"啟動 HTTP 服務", func(a []string) error { return goRun("./cmd/svr", a) }},
	"play":        {"終端機試玩", func(a []string) error { return goRun("./cmd/play", a) }},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	t, ok := tasks[os.Args[1]]
	if !ok {
		printColor(colorYellow, "Unknown task: "+os.Args[1])
		usage()
		os.Exit(1)
	}
	if err := t.run(os.Args[2:]); err != nil {
		printColor(colorRed, err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: go run ./scripts [task] [args...]")
	names := make([]string, 0, len(tasks))
	for n := range tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %-12s %s\n", n, tasks[n].help)
	}
}

// goTest 清除 test cache 後跑全部測試；非 verbose 時只留 ok/FAIL 與建置錯誤
func goTest(verbose bool) error {
	printColor(colorGreen, "running tests")
	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		printColor(colorRed, err.Error())
	}

	args := []string{"test", "./...", "-cover", "-count=1"}
	if verbose {
		args = append(args, "-v")
	}
	cmd := exec.Command("go", args...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start go test: %w", err)
	}

	sc := bufio.NewScanner(out)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.Contains(line, "[no test files]"):
		case strings.HasPrefix(line, "ok"):
			printColor(colorGreen, line)
		case strings.HasPrefix(line, "FAIL"), strings.Contains(line, "build failed"), strings.Contains(line, "setup failed"):
			printColor(colorRed, line)
		case verbose:
			fmt.Println(line)
		}
	}
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("tests finished with errors")
	}
	return nil
}

func simAll(args []string) error {
	for _, id := range []string{"1", "2"} {
		a := append([]string{"-board", id, "-games", "2000", "-worker", "4"}, args...)
		if err := goRun("./cmd/run", a); err != nil {
			return err
		}
	}
	return nil
}

func goRun(pkg string, args []string) error {
	cmd := exec.Command("go", append([]string{"run", pkg}, args...)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	return cmd.Run()
}

func printColor(color, msg string) {
	fmt.Printf("%s%s%s\n", color, msg, colorReset)
}
