// Copyright 2026 Blink Labs Software
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

package blob

import (
	"fmt"

	"github.com/blinklabs-io/crowdfund/database/plugin"
	"github.com/blinklabs-io/crowdfund/database/types"
)

// BlobStore is a transactional key-value store
type BlobStore interface {
	plugin.Plugin
	Close() error
	NewTransaction(readWrite bool) types.Txn
	// Get returns types.ErrBlobKeyNotFound for a missing key
	Get(txn types.Txn, key []byte) ([]byte, error)
	Set(txn types.Txn, key []byte, val []byte) error
	Delete(txn types.Txn, key []byte) error
	// Iterate calls fn for every key with the given prefix, in key order.
	// The slices passed to fn are only valid for the duration of the call
	Iterate(txn types.Txn, prefix []byte, fn func(key []byte, val []byte) error) error
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(timestamp int64, txn types.Txn) error
}

// New returns the started blob plugin selected by name
func New(pluginName string) (BlobStore, error) {
	p, err := plugin.StartPlugin(plugin.PluginTypeBlob, pluginName)
	if err != nil {
		return nil, err
	}
	blobStore, ok := p.(BlobStore)
	if !ok {
		_ = p.Stop()
		return nil, fmt.Errorf(
			"plugin '%s' does not implement BlobStore interface",
			pluginName,
		)
	}
	return blobStore, nil
}
