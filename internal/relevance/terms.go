package relevance

// HardwareKeywords are the target terms shared by the forum and news sources.
var HardwareKeywords = []string{
	"NVIDIA", "GPU", "CUDA", "H100", "A100", "RTX", "GTX", "V100",
	"AI hardware", "ML training", "deep learning", "neural networks",
	"budget constraints", "expensive", "cost", "alternative", "alternatives",
	"training", "inference", "compute", "performance", "TPU", "tensor",
	"machine learning", "artificial intelligence", "model training",
	"data center", "cloud computing", "HPC", "high performance computing",
	"tinygrad", "pytorch", "tensorflow", "JAX", "MLX", "triton",
	"RISC-V", "open source", "hardware acceleration", "AI chips",
	"inference engine", "model optimization", "quantization", "pruning",
	"edge computing", "embedded AI", "custom silicon", "ASIC", "FPGA",
}

// HardwarePainPoints are the pain indicators shared by the forum and news sources.
var HardwarePainPoints = []string{
	"expensive", "cost", "budget", "price", "overpriced", "costly",
	"shortage", "scalper", "waitlist", "backorder", "out of stock",
	"slow", "performance", "bottleneck", "limitation", "issues",
	"problem", "struggling", "difficult", "challenge", "frustrating",
	"can't afford", "too expensive", "broke", "tight budget",
}

// LinkedInKeywords target B2B purchase intent.
var LinkedInKeywords = []string{
	"tinygrad", "pytorch", "tensorflow", "JAX", "MLX", "triton", "mojo",
	"huggingface", "transformers", "llama", "mistral", "claude", "openai",
	"anthropic", "stability ai", "midjourney", "runway",
	"NVIDIA shortage", "GPU shortage", "H100 shortage", "A100 expensive",
	"CUDA licensing", "GPU costs", "hardware budget", "compute costs",
	"cloud bills", "AWS costs", "Azure costs", "GCP costs",
	"GPU availability", "supply chain issues", "procurement delays",
	"alternatives to NVIDIA", "GPU alternatives", "NVIDIA competitors",
	"custom silicon", "ASIC development", "FPGA solutions",
	"RISC-V processors", "open source hardware", "hardware acceleration",
	"AI chips", "inference acceleration", "edge computing",
	"CTO", "VP Engineering", "Head of AI", "ML Engineering Manager",
	"Director of Data Science", "Chief AI Officer", "AI Infrastructure Lead",
	"MLOps Engineer", "DevOps Lead", "Platform Engineering",
	"scaling AI", "production deployment", "enterprise AI", "AI strategy",
	"ML infrastructure", "model deployment", "inference optimization",
	"cost optimization", "performance optimization", "ROI analysis",
}

// LinkedInPainPoints are high-intent B2B pain indicators.
var LinkedInPainPoints = []string{
	"too expensive", "over budget", "cost prohibitive", "can't afford",
	"budget constraints", "ROI concerns", "cost analysis", "price comparison",
	"performance issues", "bottlenecks", "slow training", "memory limitations",
	"scaling problems", "deployment challenges", "integration issues",
	"out of stock", "long lead times", "supply shortage", "procurement delays",
	"vendor issues", "availability problems", "waiting list",
	"vendor lock-in", "dependency concerns", "flexibility needed",
	"open source preference", "control requirements", "customization needs",
}

// TwitterKeywords target viral developer and enterprise topics.
var TwitterKeywords = []string{
	"tinygrad", "pytorch", "tensorflow", "JAX", "MLX", "triton", "mojo",
	"huggingface", "transformers", "llama", "mistral", "claude",
	"openai", "anthropic", "stability ai", "midjourney",
	"NVIDIA expensive", "GPU prices", "H100 cost", "A100 pricing",
	"CUDA expensive", "GPU shortage", "can't afford GPU",
	"cloud costs", "AWS bill", "compute budget", "hardware budget",
	"NVIDIA alternative", "GPU alternative", "cheaper than NVIDIA",
	"open source AI", "custom silicon", "RISC-V", "FPGA",
	"AI chip startup", "hardware acceleration", "edge computing",
	"CUDA problems", "memory issues", "training slow", "inference slow",
	"optimization needed", "performance bottleneck", "scaling issues",
	"deployment challenges", "model optimization", "quantization",
	"enterprise AI", "production ML", "AI infrastructure", "MLOps",
	"AI strategy", "CTO", "VP Engineering", "Head of AI",
	"startup funding", "Series A", "Series B", "AI investment",
}

// TwitterPainPoints are frustration markers common on X/Twitter.
var TwitterPainPoints = []string{
	"too expensive", "can't afford", "broke", "overpriced", "ripoff",
	"budget blown", "cost prohibitive", "pricing insane", "wallet crying",
	"not working", "broken", "slow as hell", "terrible performance",
	"memory leak", "crashes", "buggy", "unstable", "nightmare",
	"out of stock", "sold out", "waitlist", "scalpers", "shortage",
	"unavailable", "backordered", "delayed", "supply chain hell",
	"vendor lock-in", "monopoly", "no choice", "forced to use",
	"proprietary trap", "closed source", "license hell", "support sucks",
}

// TwitterQueries are the search queries the Twitter adapter cycles through.
var TwitterQueries = []string{
	"tinygrad vs pytorch",
	"tinygrad performance",
	"tinygrad benchmark",
	"why use tinygrad",
	"NVIDIA too expensive",
	"GPU alternatives 2024",
	"cheap AI hardware",
	"open source GPU",
	"custom AI chips",
	"AI inference optimization",
	"model deployment costs",
	"edge AI hardware",
	"quantization tools",
	"ML acceleration",
	"AI infrastructure costs",
	"enterprise AI hardware",
	"AI startup hardware",
	"ML ops platform",
	"AI compute ROI",
}

// Subreddits scanned by the forum adapter when none are configured.
var Subreddits = []string{
	"MachineLearning",
	"LocalLLaMA",
	"ArtificialIntelligence",
	"hardware",
	"buildapc",
}
