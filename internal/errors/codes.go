package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 이메일/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // 이메일 중복

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // 관리자만 가능
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // 소유자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // 범위 초과
	ValidationInvalidRole  = "VALIDATION_INVALID_ROLE"  // 잘못된 역할

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌
	ResourceInvalidType   = "RESOURCE_INVALID_TYPE"   // 잘못된 리소스 종류

	// ==================== 음식점 (RESTAURANT_) ====================
	RestaurantNotFound        = "RESTAURANT_NOT_FOUND"        // 음식점 없음 또는 미승인
	RestaurantNotApproved     = "RESTAURANT_NOT_APPROVED"     // 미승인 음식점
	RestaurantAlreadyApproved = "RESTAURANT_ALREADY_APPROVED" // 이미 승인됨

	// ==================== 메뉴 (DISH_) ====================
	DishNotFound      = "DISH_NOT_FOUND"       // 메뉴 없음
	DishNameConflict  = "DISH_NAME_CONFLICT"   // 같은 음식점에 동일 이름 메뉴 존재

	// ==================== 카테고리 (CATEGORY_) ====================
	CategoryNotFound      = "CATEGORY_NOT_FOUND"       // 카테고리 없음
	CategoryAlreadyExists = "CATEGORY_ALREADY_EXISTS"  // 카테고리 이름 중복

	// ==================== 리뷰 (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"       // 리뷰 없음
	ReviewInvalidRating = "REVIEW_INVALID_RATING"  // 잘못된 평점
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"  // 이미 리뷰 작성함
	ReviewSelfReaction  = "REVIEW_SELF_REACTION"   // 자기 리뷰에 리액션 불가
	ReviewInvalidAction = "REVIEW_INVALID_ACTION"  // 잘못된 리액션 종류

	// ==================== 즐겨찾기 (FAVORITE_) ====================
	FavoriteNotFound      = "FAVORITE_NOT_FOUND"       // 즐겨찾기 없음
	FavoriteAlreadyExists = "FAVORITE_ALREADY_EXISTS"  // 이미 즐겨찾기함

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // 파일 너무 큼
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalTxAborted     = "INTERNAL_TX_ABORTED"     // 트랜잭션 중단 (재시도 가능)
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"   // 설정 오류
)
