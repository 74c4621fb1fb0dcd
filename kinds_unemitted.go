// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the pinvoke-marshal library.

package pinvoke

// unemittedKinds are classified in full by Classify (§4.1's decision
// tree is exhaustive) but have no registered emission hooks: §12.1
// decides that the orchestrator rejects a marshaller of any of these
// kinds with ErrUnsupportedSignature rather than emitting anything,
// matching the "likely rejection" guess of spec.md §9's open question.
// This file deliberately registers nothing for them — lookupHooks
// returning false in NewMarshaller is the rejection mechanism itself.
var unemittedKinds = []MarshallerKind{
	KindCriticalHandle,
	KindHandleRef,
	KindVariant,
	KindObject,
	KindByValArray,
	KindByValAnsiCharArray,
	KindStruct,
	KindDecimal,
	KindGuid,
	KindOleDateTime,
	KindAnsiCharArray,
	KindAnsiStringBuilder,
}
