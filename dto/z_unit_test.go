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

package dto

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/randlab/corefmt"
	"github.com/zintix-labs/randlab/sdk/bitgen"
	"github.com/zintix-labs/randlab/spec"
)

func TestDecodeDrawRequestGET(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/draw?algo=xorshift128&seed=42&has_seed=true&n=10&kind=int&min=-3&max=9&has_range=true", nil)
	req, err := DecodeDrawRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Algo != spec.AlgoXorShift128 || req.Seed != 42 || !req.HasSeed {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.N != 10 || req.Kind != "int" || req.Min != -3 || req.Max != 9 || !req.HasRange {
		t.Fatalf("unexpected request: %+v", req)
	}
	if err := req.Valid(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestDecodeDrawRequestBadQuery(t *testing.T) {
	for _, url := range []string{
		"/draw?algo=xorshift128&seed=notanumber&n=10&kind=int",
		"/draw?algo=xorshift128&n=abc&kind=int",
		"/draw?algo=xorshift128&n=10&kind=int&has_seed=maybe",
	} {
		r := httptest.NewRequest(http.MethodGet, url, nil)
		if _, err := DecodeDrawRequest(r); err == nil {
			t.Fatalf("bad query accepted: %s", url)
		}
	}
}

func TestDecodeDrawRequestPOST(t *testing.T) {
	payload := map[string]any{
		"algo":     "mt19937",
		"seed":     7,
		"has_seed": true,
		"n":        5,
		"kind":     "float",
	}
	data, _ := json.Marshal(payload)
	r := httptest.NewRequest(http.MethodPost, "/draw", bytes.NewReader(data))
	req, err := DecodeDrawRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Algo != spec.AlgoMT19937 || req.Seed != 7 || req.N != 5 || req.Kind != "float" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestDecodeDrawRequestRejectsUnknownFields(t *testing.T) {
	data := []byte(`{"algo":"mt19937","n":5,"kind":"int","unknown":true}`)
	r := httptest.NewRequest(http.MethodPost, "/draw", bytes.NewReader(data))
	if _, err := DecodeDrawRequest(r); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestSeedContract(t *testing.T) {
	// has_seed=false 時 seed 必須省略，避免 seed=0 的雙重語意
	req := &DrawRequest{Algo: spec.AlgoNR3, Seed: 5, HasSeed: false, N: 1, Kind: "int"}
	if err := req.Valid(); err == nil {
		t.Fatalf("seed without has_seed accepted")
	}
	req = &DrawRequest{Algo: spec.AlgoNR3, Seed: 0, HasSeed: true, N: 1, Kind: "int"}
	if err := req.Valid(); err != nil {
		t.Fatalf("explicit zero seed rejected: %v", err)
	}
}

func TestStartStateRoundTrip(t *testing.T) {
	g := bitgen.NewXorShift128(99)
	c := bitgen.MustNew(g)
	c.Next()
	c.Next()

	snap, err := SnapshotState(c)
	if err != nil {
		t.Fatalf("SnapshotState: %v", err)
	}
	ss := &StartState{StartSnapB64U: corefmt.EncodeBase64URL(snap)}
	if !ss.HasPayload() {
		t.Fatalf("payload not detected")
	}
	got, err := ss.Snap()
	if err != nil {
		t.Fatalf("Snap: %v", err)
	}
	if !bytes.Equal(got, snap) {
		t.Fatalf("snapshot changed in transit")
	}

	var empty *StartState
	if empty.HasPayload() {
		t.Fatalf("nil state reported payload")
	}
	if b, err := empty.Snap(); err != nil || b != nil {
		t.Fatalf("nil state Snap = (%v, %v), want (nil, nil)", b, err)
	}

	bad := &StartState{StartSnapB64U: "%%%not-base64%%%"}
	if _, err := bad.Snap(); err == nil {
		t.Fatalf("corrupt payload accepted")
	}
}

func TestNewDrawState(t *testing.T) {
	st := NewDrawState([]byte{1, 2, 3}, []byte{4, 5})
	if st.StartSnapB64U == "" || st.AfterSnapB64U == "" {
		t.Fatalf("empty draw state: %+v", st)
	}
	start, err := corefmt.DecodeBase64URL(st.StartSnapB64U)
	if err != nil || !bytes.Equal(start, []byte{1, 2, 3}) {
		t.Fatalf("start round trip failed: %v %v", start, err)
	}
}
