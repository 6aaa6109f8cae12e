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

// Package roundfile 負責回合資料的落地保存：
// 一輪一個 zstd 壓縮的 JSON 檔，檔名帶回合編號，存取皆先過 Valid。
package roundfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/wagerlab/errs"
	"github.com/zintix-labs/wagerlab/spec"
)

const filePattern = "round_%d.json.zst"

// Store 管理單一目錄下的回合檔案。
type Store struct {
	dir string
}

// NewStore 開啟（必要時建立）存放目錄。
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errs.NewWarn("roundfile: dir must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "roundfile: mkdir store dir")
	}
	return &Store{dir: dir}, nil
}

// Path 回合檔的完整路徑。
func (s *Store) Path(round uint32) string {
	return filepath.Join(s.dir, fmt.Sprintf(filePattern, round))
}

// Save 驗證後壓縮寫入；同回合既有檔案會被覆蓋。
func (s *Store) Save(rd *spec.RoundData) error {
	if err := rd.Valid(); err != nil {
		return errs.Wrap(err, "roundfile save: invalid round")
	}
	raw, err := json.Marshal(rd)
	if err != nil {
		return errs.Wrap(err, "roundfile save: marshal round json")
	}

	f, err := os.Create(s.Path(rd.Round))
	if err != nil {
		return errs.Wrap(err, "roundfile save: create file")
	}
	defer func() { _ = f.Close() }()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return errs.Wrap(err, "roundfile save: create zstd writer")
	}
	if _, err := zw.Write(raw); err != nil {
		_ = zw.Close()
		return errs.Wrap(err, "roundfile save: write compressed json")
	}
	if err := zw.Close(); err != nil {
		return errs.Wrap(err, "roundfile save: close zstd writer")
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(err, "roundfile save: close file")
	}
	return nil
}

// Load 解壓讀回並驗證。
func (s *Store) Load(round uint32) (*spec.RoundData, error) {
	raw, err := os.ReadFile(s.Path(round))
	if err != nil {
		return nil, errs.Wrap(err, "roundfile load: read file")
	}
	zr, err := zstd.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errs.Wrap(err, "roundfile load: create zstd reader")
	}
	defer zr.Close()

	plain, err := io.ReadAll(zr)
	if err != nil {
		return nil, errs.Wrap(err, "roundfile load: decompress")
	}
	rd, err := spec.GetRoundDataByJSON(plain)
	if err != nil {
		return nil, errs.Wrap(err, "roundfile load: parse round json")
	}
	if rd.Round != round {
		return nil, errs.Warnf("roundfile load: file carries round %d, want %d", rd.Round, round)
	}
	return rd, nil
}

// List 列出目錄中全部回合編號，由小到大。不認得的檔名直接略過。
func (s *Store) List() ([]uint32, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errs.Wrap(err, "roundfile list: read store dir")
	}
	var rounds []uint32
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, "round_") || !strings.HasSuffix(name, ".json.zst") {
			continue
		}
		num := strings.TrimSuffix(strings.TrimPrefix(name, "round_"), ".json.zst")
		n, err := strconv.ParseUint(num, 10, 32)
		if err != nil {
			continue
		}
		rounds = append(rounds, uint32(n))
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i] < rounds[j] })
	return rounds, nil
}

// Latest 目錄中編號最大的回合；空目錄回傳錯誤。
func (s *Store) Latest() (*spec.RoundData, error) {
	rounds, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(rounds) == 0 {
		return nil, errs.NewWarn("roundfile: store is empty")
	}
	return s.Load(rounds[len(rounds)-1])
}
