package instagram

const (
	studioProfile = "https://www.instagram.com/dg_studios_warri/"
	weddingImage  = "https://res.cloudinary.com/drqkqdttn/image/upload/v1756214171/WhatsApp_Image_2025-08-26_at_13.41.05_4bf21354_tyvb6k.jpg"
	portraitImage = "https://res.cloudinary.com/drqkqdttn/image/upload/v1756214065/WhatsApp_Image_2025-08-26_at_13.42.04_ebe2af1e_sdhkft.jpg"
	fashionImage  = "https://res.cloudinary.com/drqkqdttn/image/upload/v1756214253/WhatsApp_Image_2025-08-26_at_14.17.18_f21e80c3_ofyat7.jpg"
	artImage      = "https://res.cloudinary.com/drqkqdttn/image/upload/v1756214387/WhatsApp_Image_2025-08-26_at_14.19.36_d7443474_str3is.jpg"
)

var fallbackPosts = []Post{
	{ID: "fallback-1", MediaType: "IMAGE", MediaURL: weddingImage, Permalink: studioProfile, Caption: "Elegant wedding moments ✨"},
	{ID: "fallback-2", MediaType: "IMAGE", MediaURL: portraitImage, Permalink: studioProfile, Caption: "Professional portrait session 📸"},
	{ID: "fallback-3", MediaType: "IMAGE", MediaURL: fashionImage, Permalink: studioProfile, Caption: "Fashion editorial vibes 🔥"},
	{ID: "fallback-4", MediaType: "IMAGE", MediaURL: artImage, Permalink: studioProfile, Caption: "Creative portrait art 🎨"},
	{ID: "fallback-5", MediaType: "IMAGE", MediaURL: weddingImage, Permalink: studioProfile, Caption: "Behind the scenes magic ✨"},
	{ID: "fallback-6", MediaType: "IMAGE", MediaURL: fashionImage, Permalink: studioProfile, Caption: "Studio life 📷"},
}
