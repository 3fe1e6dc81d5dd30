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

package fundraiser

import (
	"context"
	"errors"
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"

	"github.com/blinklabs-io/crowdfund/address"
)

// InstructionKind is the leading byte of an encoded instruction
type InstructionKind uint8

const (
	InstructionStartFundraiser InstructionKind = 0
	InstructionDonate          InstructionKind = 1
	InstructionWithdraw        InstructionKind = 2
)

func (k InstructionKind) String() string {
	switch k {
	case InstructionStartFundraiser:
		return "start_fundraiser"
	case InstructionDonate:
		return "donate"
	case InstructionWithdraw:
		return "withdraw"
	default:
		return fmt.Sprintf("InstructionKind(%d)", uint8(k))
	}
}

// StartFundraiserArgs are the arguments of start_fundraiser
type StartFundraiserArgs struct {
	cbor.StructAsArray
	Description string
	Target      uint64
	Mint        []byte
}

// DonateArgs are the arguments of donate
type DonateArgs struct {
	cbor.StructAsArray
	Fundraiser []byte
	Wallet     []byte
	Amount     uint64
}

// WithdrawArgs are the arguments of withdraw
type WithdrawArgs struct {
	cbor.StructAsArray
	Fundraiser  []byte
	Destination []byte
}

// EncodeInstruction serializes an instruction as its kind byte followed by
// the CBOR encoded arguments
func EncodeInstruction(kind InstructionKind, args any) ([]byte, error) {
	switch kind {
	case InstructionStartFundraiser:
		if _, ok := args.(*StartFundraiserArgs); !ok {
			return nil, fmt.Errorf("%s expects *StartFundraiserArgs, got %T", kind, args)
		}
	case InstructionDonate:
		if _, ok := args.(*DonateArgs); !ok {
			return nil, fmt.Errorf("%s expects *DonateArgs, got %T", kind, args)
		}
	case InstructionWithdraw:
		if _, ok := args.(*WithdrawArgs); !ok {
			return nil, fmt.Errorf("%s expects *WithdrawArgs, got %T", kind, args)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownInstruction, uint8(kind))
	}
	argsCbor, err := cbor.Encode(args)
	if err != nil {
		return nil, fmt.Errorf("encode %s arguments: %w", kind, err)
	}
	ret := make([]byte, 0, len(argsCbor)+1)
	ret = append(ret, byte(kind))
	ret = append(ret, argsCbor...)
	return ret, nil
}

// DecodeInstruction parses the output of EncodeInstruction. The returned
// arguments are one of *StartFundraiserArgs, *DonateArgs or *WithdrawArgs
func DecodeInstruction(data []byte) (InstructionKind, any, error) {
	if len(data) == 0 {
		return 0, nil, errors.New("empty instruction")
	}
	kind := InstructionKind(data[0])
	var args any
	switch kind {
	case InstructionStartFundraiser:
		args = &StartFundraiserArgs{}
	case InstructionDonate:
		args = &DonateArgs{}
	case InstructionWithdraw:
		args = &WithdrawArgs{}
	default:
		return kind, nil, fmt.Errorf("%w: %d", ErrUnknownInstruction, data[0])
	}
	if _, err := cbor.Decode(data[1:], args); err != nil {
		return kind, nil, fmt.Errorf("decode %s arguments: %w", kind, err)
	}
	return kind, args, nil
}

// Process decodes an instruction and runs it on behalf of signer. The signer
// is assumed to have been authenticated by the caller
func (p *Program) Process(
	ctx context.Context,
	signer address.Identity,
	data []byte,
) error {
	kind, args, err := DecodeInstruction(data)
	if err != nil {
		return err
	}
	p.logger.Debug(
		"processing instruction",
		"instruction", kind.String(),
		"signer", signer.String(),
	)
	switch a := args.(type) {
	case *StartFundraiserArgs:
		mint, err := address.NewIdentity(a.Mint)
		if err != nil {
			return fmt.Errorf("mint: %w", err)
		}
		_, err = p.StartFundraiser(ctx, signer, a.Description, a.Target, mint)
		return err
	case *DonateArgs:
		fundraiserAddr, err := address.NewIdentity(a.Fundraiser)
		if err != nil {
			return fmt.Errorf("fundraiser: %w", err)
		}
		wallet, err := address.NewIdentity(a.Wallet)
		if err != nil {
			return fmt.Errorf("wallet: %w", err)
		}
		return p.Donate(ctx, signer, fundraiserAddr, wallet, a.Amount)
	case *WithdrawArgs:
		fundraiserAddr, err := address.NewIdentity(a.Fundraiser)
		if err != nil {
			return fmt.Errorf("fundraiser: %w", err)
		}
		destination, err := address.NewIdentity(a.Destination)
		if err != nil {
			return fmt.Errorf("destination: %w", err)
		}
		_, err = p.Withdraw(ctx, signer, fundraiserAddr, destination)
		return err
	default:
		return fmt.Errorf("%w: %T", ErrUnknownInstruction, args)
	}
}
