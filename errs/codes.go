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

package errs

// 哨兵錯誤：以 Code 比對，使用 errors.Is 判斷
var (
	ErrInvalidConfig   = &E{Code: "invalid_config", Message: "invalid board config", ErrLv: Fatal}
	ErrBoardNotFound   = &E{Code: "board_not_found", Message: "board not found", ErrLv: Warn}
	ErrSessionNotFound = &E{Code: "session_not_found", Message: "session not found", ErrLv: Warn}
	ErrOutOfBounds     = &E{Code: "out_of_bounds", Message: "cell out of bounds", ErrLv: Warn}
	ErrBusy            = &E{Code: "board_busy", Message: "board is resolving", ErrLv: Warn}
	ErrCascadeCap      = &E{Code: "cascade_cap", Message: "cascade did not settle within cap", ErrLv: Warn}
)
